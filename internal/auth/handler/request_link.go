package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"magiclink-service/internal/directory"

	"github.com/gin-gonic/gin"
)

type requestLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

const deliveryTimeout = 15 * time.Second

// RequestLink mints a single-use magic token for the submitted address
// and mails the sign-in link. The response is {"sent": true} whether or
// not the address was already known, so the endpoint leaks nothing
// about existing accounts.
func (h *Handler) RequestLink(c *gin.Context) {
	var req requestLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}

	email := directory.NormalizeEmail(req.Email)

	userID, err := h.dir.FindOrCreate(c.Request.Context(), email)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	tok, err := h.tokens.Issue(c.Request.Context(), userID)
	if err != nil {
		slog.Error("token issuance failed", "error", err)
		h.metrics.StoreErrors.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.metrics.TokensIssued.Inc()

	link := fmt.Sprintf("%s/api/auth/callback?token=%s", h.cfg.BackendPublicURL, tok)
	body := fmt.Sprintf(
		"Click to sign in: %s\n\nThis link expires in %d minutes.",
		link,
		int(h.tokens.TTL().Minutes()),
	)

	// Delivery happens after the token write and never rolls it back.
	// The request does not wait on the mail relay.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := h.mail.Send(ctx, email, "Your sign-in link", body); err != nil {
			slog.Error("magic link delivery failed", "error", err, "to", email)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"sent": true})
}
