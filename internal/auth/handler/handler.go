package handler

import (
	"magiclink-service/internal/config"
	"magiclink-service/internal/directory"
	"magiclink-service/internal/mailer"
	"magiclink-service/internal/metrics"
	"magiclink-service/internal/middleware"
	"magiclink-service/internal/session"
	"magiclink-service/internal/token"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg      config.Config
	tokens   *token.Service
	sessions *session.Manager
	dir      directory.Directory
	mail     mailer.Sender
	metrics  *metrics.Metrics
}

func NewHandler(
	cfg config.Config,
	tokens *token.Service,
	sessions *session.Manager,
	dir directory.Directory,
	mail mailer.Sender,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		cfg:      cfg,
		tokens:   tokens,
		sessions: sessions,
		dir:      dir,
		mail:     mail,
		metrics:  m,
	}
}

// RegisterRoutes wires the auth endpoints. The protected group gets the
// authorization gate; everything else is public.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware) {
	r.POST("/api/auth/request-link", h.RequestLink)
	r.GET("/api/auth/callback", h.Callback)
	r.POST("/api/auth/logout", h.Logout)

	protected := r.Group("/api", auth.RequireAuth())
	protected.GET("/auth/me", h.Me)
	protected.GET("/protected/whoami", h.WhoAmI)
}

func (h *Handler) cookieOptions() session.CookieOptions {
	return session.CookieOptions{
		Secure: h.cfg.SecureCookies(),
	}
}
