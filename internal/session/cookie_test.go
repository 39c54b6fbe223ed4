package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	res := rec.Result()
	defer res.Body.Close()

	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSetCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()

	SetCookie(rec, "abc123", 30*24*time.Hour, CookieOptions{Secure: true})

	c := recordedCookie(t, rec)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc123", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), c.MaxAge)
}

func TestSetCookieInsecureForLocalEnvs(t *testing.T) {
	rec := httptest.NewRecorder()

	SetCookie(rec, "abc123", time.Hour, CookieOptions{Secure: false})

	c := recordedCookie(t, rec)
	assert.False(t, c.Secure)
	assert.True(t, c.HttpOnly)
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()

	ClearCookie(rec, CookieOptions{Secure: true})

	c := recordedCookie(t, rec)
	assert.Equal(t, CookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}
