package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingEmail       = errors.New("missing email")
	ErrMissingPassword    = errors.New("missing password")
	ErrAlreadyExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountStore is the user persistence the account service needs.
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Accounts registers users and opens or closes their sessions.
type Accounts struct {
	users  AccountStore
	tokens *TokenStore
	cost   int
}

func NewAccounts(users AccountStore, tokens *TokenStore) *Accounts {
	return &Accounts{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy hashing passwords with the given bcrypt cost.
func (a *Accounts) WithCost(cost int) *Accounts {
	clone := *a
	clone.cost = cost
	return &clone
}

func (a *Accounts) Register(ctx context.Context, email, password string) (*Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := a.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &Principal{ID: user.ID, Email: user.Email}, nil
}

// Connect checks the password and issues a session token.
func (a *Accounts) Connect(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.tokens.Issue(ctx, user.ID)
}

// Disconnect revokes a session token.
func (a *Accounts) Disconnect(ctx context.Context, token string) error {
	ok, err := a.tokens.Revoke(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
