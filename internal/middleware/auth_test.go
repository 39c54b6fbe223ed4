package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"magiclink-service/internal/kv"
	"magiclink-service/internal/metrics"
	"magiclink-service/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// brokenStore fails every call, simulating an unreachable store.
type brokenStore struct{}

var errStoreDown = errors.New("connection refused")

func (brokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errStoreDown
}

func (brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", errStoreDown
}

func (brokenStore) GetDel(ctx context.Context, key string) (string, error) {
	return "", errStoreDown
}

func (brokenStore) Del(ctx context.Context, key string) error {
	return errStoreDown
}

func newTestRouter(t *testing.T, mgr *session.Manager) *gin.Engine {
	t.Helper()

	auth := NewAuthMiddleware(mgr, metrics.New(prometheus.NewRegistry()))

	r := gin.New()
	r.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		userID, ok := UserIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func newRedisManager(t *testing.T) *session.Manager {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return session.NewManager(kv.NewRedisStore(client), time.Hour)
}

func TestRequireAuthNoCookie(t *testing.T) {
	r := newTestRouter(t, newRedisManager(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthEmptyCookie(t *testing.T) {
	r := newTestRouter(t, newRedisManager(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: ""})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthUnknownSession(t *testing.T) {
	r := newTestRouter(t, newRedisManager(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-session"})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// The gate fails closed: a store outage is a 401, never a 500 and never
// a pass-through.
func TestRequireAuthStoreError(t *testing.T) {
	mgr := session.NewManager(brokenStore{}, time.Hour)
	r := newTestRouter(t, mgr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "whatever"})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidSession(t *testing.T) {
	mgr := newRedisManager(t)
	r := newTestRouter(t, mgr)

	sid, err := mgr.Create(context.Background(), 42)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 42}`, rec.Body.String())
}

func TestUserIDFromContextMissing(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
}
