package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"magiclink-service/internal/kv"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewService(kv.NewRedisStore(client), ttl), mr
}

func TestIssueRedeemRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := svc.Redeem(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestRedeemIsSingleUse(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 42)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemUnknownToken(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute)

	_, err := svc.Redeem(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemEmptyToken(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute)

	_, err := svc.Redeem(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemExpiredToken(t *testing.T) {
	svc, mr := newTestService(t, time.Minute)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Exactly one of N concurrent redeemers may win; everyone else must
// see ErrInvalidToken.
func TestConcurrentRedeemAtMostOnce(t *testing.T) {
	svc, _ := newTestService(t, 15*time.Minute)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 42)
	require.NoError(t, err)

	const attempts = 32

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		invalids  int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			userID, err := svc.Redeem(ctx, tok)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				assert.Equal(t, int64(42), userID)
				successes++
			default:
				assert.ErrorIs(t, err, ErrInvalidToken)
				invalids++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, invalids)
}

func TestRedeemStoreErrorIsNotInvalidToken(t *testing.T) {
	svc, mr := newTestService(t, 15*time.Minute)
	mr.Close()

	_, err := svc.Redeem(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

// A magic token and a session sharing the same raw text must live under
// disjoint keys.
func TestNamespaceIsolation(t *testing.T) {
	svc, mr := newTestService(t, 15*time.Minute)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, 42)
	require.NoError(t, err)

	// Same raw text under the session namespace.
	require.NoError(t, mr.Set("sess:"+tok, "99"))

	userID, err := svc.Redeem(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	// The session key is untouched by redemption.
	val, err := mr.Get("sess:" + tok)
	require.NoError(t, err)
	assert.Equal(t, "99", val)
}
