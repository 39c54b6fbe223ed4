package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"magiclink-service/internal/kv"
	"magiclink-service/internal/utils"
)

const (
	keyPrefix = "magic:"

	// 32 bytes = 256 bits of entropy. Collisions are negligible, so
	// issuance never checks for an existing key.
	tokenBytes = 32
)

// ErrInvalidToken covers never-issued, expired, and already-redeemed
// tokens alike. The causes are deliberately indistinguishable.
var ErrInvalidToken = errors.New("token: invalid or expired")

// Service mints and consumes single-use magic tokens. It holds no
// state beyond the store handle.
type Service struct {
	store kv.Store
	ttl   time.Duration
}

func NewService(store kv.Store, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token bound to userID and persists it with the magic
// token TTL. Delivery of the resulting link is the caller's concern.
func (s *Service) Issue(ctx context.Context, userID int64) (string, error) {
	tok, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return "", err
	}

	val := strconv.FormatInt(userID, 10)
	if err := s.store.Set(ctx, keyPrefix+tok, val, s.ttl); err != nil {
		return "", fmt.Errorf("token: store write: %w", err)
	}

	return tok, nil
}

// Redeem consumes a token and returns the bound user id. The read and
// delete happen as one atomic store round-trip, so under concurrent
// redemption at most one caller succeeds; every other caller gets
// ErrInvalidToken. A failed redemption is terminal, never retried.
func (s *Service) Redeem(ctx context.Context, raw string) (int64, error) {
	if raw == "" {
		return 0, ErrInvalidToken
	}

	val, err := s.store.GetDel(ctx, keyPrefix+raw)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("token: store read: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token: corrupt value %q: %w", val, err)
	}

	return userID, nil
}
