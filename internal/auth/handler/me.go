package handler

import (
	"log/slog"
	"net/http"

	"magiclink-service/internal/middleware"
	"magiclink-service/internal/session"

	"github.com/gin-gonic/gin"
)

// Me returns the user behind the current session.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.dir.FindByID(c.Request.Context(), userID)
	if err != nil {
		slog.Error("user lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil {
		// Session outlived the account.
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// WhoAmI is the minimal protected endpoint: it echoes the identity the
// authorization gate resolved.
func (h *Handler) WhoAmI(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// Logout destroys the current session, if any, and clears the cookie.
// Always succeeds from the client's point of view.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(c.Request.Context(), cookie.Value); err != nil {
			// Best effort. The cookie is cleared regardless.
			slog.Error("session destroy failed", "error", err)
			h.metrics.StoreErrors.Inc()
		} else {
			h.metrics.SessionsDestroyed.Inc()
		}
	}

	session.ClearCookie(c.Writer, h.cookieOptions())

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
