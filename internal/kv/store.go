package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that a key is absent, expired, or was already
// consumed. Callers must treat absence as a normal outcome.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal key-value capability the auth core needs.
// Implementations must provide per-key atomicity; GetDel in particular
// must be a single atomic round-trip so concurrent consumers of the
// same key cannot both observe the value.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
