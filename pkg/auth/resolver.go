package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
)

// UserStore is the user lookup the resolver needs.
type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// Resolver turns credentials into principals. A session token wins over a
// bearer token; bearer tokens are only honoured when a verifier is set.
type Resolver struct {
	users  UserStore
	tokens *TokenStore
	jwt    *JWTVerifier
}

func NewResolver(users UserStore, tokens *TokenStore, verifier *JWTVerifier) *Resolver {
	return &Resolver{users: users, tokens: tokens, jwt: verifier}
}

// Resolve returns nil without an error when the credential is missing,
// unknown or refers to a user that no longer exists.
func (r *Resolver) Resolve(ctx context.Context, cred Credential) (*Principal, error) {
	var (
		userID uint
		ok     bool
		err    error
	)

	switch {
	case cred.Token != "":
		userID, ok, err = r.tokens.Lookup(ctx, cred.Token)
		if err != nil {
			return nil, err
		}
	case cred.Bearer != "" && r.jwt != nil:
		userID, ok = r.jwt.Verify(cred.Bearer)
	}
	if !ok {
		return nil, nil
	}

	user, err := r.users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load principal %d: %w", userID, err)
	}

	return &Principal{ID: user.ID, Email: user.Email}, nil
}
