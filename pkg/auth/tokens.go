package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth_"

// TokenStore keeps session tokens in redis as auth_<token> -> user id.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates a new session token for the user.
func (ts *TokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	if err := ts.client.Set(ctx, tokenKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), ts.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}

// Lookup returns the user id bound to token. Unknown, expired or corrupt
// tokens report ok=false without an error.
func (ts *TokenStore) Lookup(ctx context.Context, token string) (uint, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	value, err := ts.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up session token: %w", err)
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// Revoke deletes token and reports whether it existed.
func (ts *TokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	n, err := ts.client.Del(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to revoke session token: %w", err)
	}
	return n > 0, nil
}

func (ts *TokenStore) Ping(ctx context.Context) error {
	return ts.client.Ping(ctx).Err()
}
