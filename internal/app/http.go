package app

import (
	"context"
	"net/http"
	"time"

	"magiclink-service/internal/auth/handler"
	"magiclink-service/internal/config"
	"magiclink-service/internal/directory"
	"magiclink-service/internal/kv"
	"magiclink-service/internal/mailer"
	"magiclink-service/internal/metrics"
	"magiclink-service/internal/middleware"
	"magiclink-service/internal/session"
	"magiclink-service/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store := kv.NewRedisStore(infra.Redis.Client)

	tokens := token.NewService(store, cfg.MagicTokenTTL)
	sessions := session.NewManager(store, cfg.SessionTTL)

	dir := directory.NewPGDirectory(infra.DB)
	mail := mailer.New(cfg.Email)

	authHandler := handler.NewHandler(cfg, tokens, sessions, dir, mail, m)
	authMiddleware := middleware.NewAuthMiddleware(sessions, m)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())

	authHandler.RegisterRoutes(router, authMiddleware)

	// ----------------------------
	// Health & operability
	// ----------------------------

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/api/ping-redis", func(c *gin.Context) {
		if err := store.Set(c.Request.Context(), "hello", "world", 30*time.Second); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		val, err := store.Get(c.Request.Context(), "hello")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"redis": val})
	})

	router.GET("/api/db-version", func(c *gin.Context) {
		var version string
		err := infra.DB.QueryRowContext(c.Request.Context(), "SELECT version()").Scan(&version)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"postgres_version": version})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
