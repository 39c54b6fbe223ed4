package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"magiclink-service/internal/metrics"
	"magiclink-service/internal/session"

	"github.com/gin-gonic/gin"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

type AuthMiddleware struct {
	sessions *session.Manager
	metrics  *metrics.Metrics
}

func NewAuthMiddleware(sessions *session.Manager, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		metrics:  m,
	}
}

// RequireAuth gates protected routes on a resolvable session cookie.
// The gate fails closed: a missing cookie, an unknown session, and a
// store failure all produce the same 401. When the cookie is absent no
// store call is made.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			a.reject(c)
			return
		}

		userID, err := a.sessions.Resolve(c.Request.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				// Store outage. Logged with detail, surfaced as a
				// plain 401.
				slog.Error("session resolution failed",
					"error", err,
					"path", c.Request.URL.Path,
				)
				a.metrics.StoreErrors.Inc()
			}
			a.reject(c)
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (a *AuthMiddleware) reject(c *gin.Context) {
	a.metrics.Unauthorized.Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
