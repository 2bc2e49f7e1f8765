package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
)

const revokedTokenPrefix = "portal:revoked:"

type tokenRepository struct {
	client *goredis.Client
}

// NewTokenRepository stores revoked token ids as expiring keys, so the
// denylist never outlives the tokens it covers.
func NewTokenRepository(client *goredis.Client) repository.TokenRepository {
	return &tokenRepository{client: client}
}

func (r *tokenRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
