package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// challengeGrace keeps an expired challenge around past its logical expiry
// so a stale code can be reported as expired rather than unknown.
const challengeGrace = 1 * time.Hour

// ChallengeRepository stores pending OTP challenges keyed by user and
// purpose. Storing overwrites any pending challenge for the same key.
type ChallengeRepository interface {
	Store(ctx context.Context, purpose Purpose, userID uuid.UUID, ch *Challenge) error
	Get(ctx context.Context, purpose Purpose, userID uuid.UUID) (*Challenge, error)
	Delete(ctx context.Context, purpose Purpose, userID uuid.UUID) error
}

// RedisChallengeRepository keeps OTP challenges in Redis with a TTL.
type RedisChallengeRepository struct {
	client *redis.Client
}

func NewRedisChallengeRepository(client *redis.Client) *RedisChallengeRepository {
	return &RedisChallengeRepository{client: client}
}

func challengeKey(purpose Purpose, userID uuid.UUID) string {
	return fmt.Sprintf("otp:%s:%s", purpose, userID.String())
}

// Store persists the challenge, replacing a pending one for the same user
// and purpose (last-write-wins, matching concurrent send semantics).
func (r *RedisChallengeRepository) Store(ctx context.Context, purpose Purpose, userID uuid.UUID, ch *Challenge) error {
	key := challengeKey(purpose, userID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       ch.Code,
		"expires_at": ch.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, time.Until(ch.ExpiresAt)+challengeGrace)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}

	return nil
}

// Get retrieves the pending challenge, if any.
func (r *RedisChallengeRepository) Get(ctx context.Context, purpose Purpose, userID uuid.UUID) (*Challenge, error) {
	key := challengeKey(purpose, userID)

	data, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get otp challenge: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrChallengeNotFound
	}

	expiresAtUnix, err := strconv.ParseInt(data["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse otp challenge expiry: %w", err)
	}

	return &Challenge{
		Code:      data["code"],
		ExpiresAt: time.Unix(expiresAtUnix, 0),
	}, nil
}

// Delete removes the pending challenge. Deleting a missing key is a no-op.
func (r *RedisChallengeRepository) Delete(ctx context.Context, purpose Purpose, userID uuid.UUID) error {
	if err := r.client.Del(ctx, challengeKey(purpose, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp challenge: %w", err)
	}
	return nil
}
