package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"magiclink-service/internal/session"
	"magiclink-service/internal/token"

	"github.com/gin-gonic/gin"
)

// Callback consumes the magic token from the emailed link, creates a
// session, sets the session cookie, and redirects to the frontend.
// Never-issued, expired, and already-used tokens all get the same
// response; so does a store outage (fail closed).
func (h *Handler) Callback(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	userID, err := h.tokens.Redeem(c.Request.Context(), raw)
	if err != nil {
		if !errors.Is(err, token.ErrInvalidToken) {
			slog.Error("token redemption failed", "error", err)
			h.metrics.StoreErrors.Inc()
		}
		h.metrics.TokensRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}
	h.metrics.TokensRedeemed.Inc()

	sid, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		slog.Error("session creation failed", "error", err)
		h.metrics.StoreErrors.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.metrics.SessionsCreated.Inc()

	session.SetCookie(c.Writer, sid, h.sessions.TTL(), h.cookieOptions())

	c.Redirect(http.StatusFound, h.cfg.FrontendURL)
}
