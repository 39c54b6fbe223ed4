package session

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
	keyPrefix = "sess:"

	// 24 bytes = 192 bits of entropy for the opaque session id.
	sidBytes = 24
)

// ErrNoSession reports that a session id does not resolve: it was
// never created, has expired, or was destroyed. A normal outcome, not
// a failure.
var ErrNoSession = errors.New("session: not found")

// Manager creates, resolves, and destroys server-side sessions. All
// state lives in the store, so a Manager is safe for concurrent use
// and can be replicated freely.
type Manager struct {
	store kv.Store
	ttl   time.Duration
}

func NewManager(store kv.Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create mints a fresh session id bound to userID. The TTL is fixed at
// creation; resolving a session never extends it.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	sid, err := utils.RandomToken(sidBytes)
	if err != nil {
		return "", err
	}

	val := strconv.FormatInt(userID, 10)
	if err := m.store.Set(ctx, keyPrefix+sid, val, m.ttl); err != nil {
		return "", fmt.Errorf("session: store write: %w", err)
	}

	return sid, nil
}

// Resolve returns the user id bound to sid. An empty sid short-circuits
// to ErrNoSession without touching the store.
func (m *Manager) Resolve(ctx context.Context, sid string) (int64, error) {
	if sid == "" {
		return 0, ErrNoSession
	}

	val, err := m.store.Get(ctx, keyPrefix+sid)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("session: store read: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: corrupt value %q: %w", val, err)
	}

	return userID, nil
}

// Destroy deletes the session unconditionally. Deleting an absent
// session is a no-op.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.store.Del(ctx, keyPrefix+sid)
}
