package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/admin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/apikeys"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/config"
	"github.com/mikepea/vibehunt/pkg/vibehunt/enrichment"
	"github.com/mikepea/vibehunt/pkg/vibehunt/logging"
	"github.com/mikepea/vibehunt/pkg/vibehunt/oidc"
	"github.com/mikepea/vibehunt/pkg/vibehunt/products"
	"github.com/mikepea/vibehunt/pkg/vibehunt/tags"
	"github.com/mikepea/vibehunt/pkg/vibehunt/upvotes"
	"github.com/mikepea/vibehunt/pkg/vibehunt/web"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/mikepea/vibehunt/api/swagger"
)

// newRouter wires every handler onto a gin engine.
func newRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	enricher := enrichment.NewClient(enrichment.Config{
		APIKey:  cfg.PerplexityAPIKey,
		BaseURL: cfg.PerplexityBaseURL,
		Model:   cfg.PerplexityModel,
		Timeout: cfg.EnrichmentTimeout,
	}, logger)
	productService := products.NewService(db, enricher, logger, cfg.EnrichmentTimeout)

	sso := newSSOHandler(cfg, db, logger)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":     "ok",
				"service":    "vibehunt",
				"enrichment": enricher.Configured(),
			})
		})

		// Auth routes (public)
		auth.NewHandler(db, logger).RegisterRoutes(api.Group("/auth"))
		if sso != nil {
			sso.RegisterRoutes(api.Group("/auth/oidc"))
		}

		// API keys are managed with a JWT session only
		apikeys.NewHandler(db, logger).RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Metadata preview (public)
		enrichment.NewHandler(enricher, logger).RegisterRoutes(api)

		// Reads work anonymously; writes check the resolved identity
		optional := api.Group("", apikeys.OptionalAuthMiddleware(db, logger))
		products.NewHandler(productService, logger).RegisterRoutes(optional)
		upvotes.NewHandler(upvotes.NewService(db, logger)).RegisterRoutes(optional)
		tags.NewHandler(db).RegisterRoutes(optional)

		// Admin routes (admin role required)
		adminGroup := api.Group("/admin", apikeys.CombinedAuthMiddleware(db, logger), auth.RequireAdmin())
		admin.NewHandler(db, logger).RegisterRoutes(adminGroup)
	}

	webHandler, err := web.NewHandler(productService, logger)
	if err != nil {
		return nil, err
	}
	if sso != nil {
		webHandler.EnableSSO(sso.Name())
	}
	webHandler.RegisterRoutes(r)

	// Optional prebuilt assets (favicon, images) next to the binary
	if _, err := os.Stat(cfg.WebDistPath); err == nil {
		r.Static("/assets", filepath.Join(cfg.WebDistPath, "assets"))
		r.StaticFile("/favicon.ico", filepath.Join(cfg.WebDistPath, "favicon.ico"))
		r.StaticFile("/robots.txt", filepath.Join(cfg.WebDistPath, "robots.txt"))
		logger.Info("serving assets", zap.String("path", cfg.WebDistPath))
	}

	return r, nil
}

// newSSOHandler returns nil when single sign-on is not configured or the
// provider cannot be reached; password login keeps working either way.
func newSSOHandler(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *oidc.Handler {
	if cfg.OIDCIssuer == "" {
		return nil
	}
	h, err := oidc.NewHandler(context.Background(), db, oidc.Config{
		Name:          cfg.OIDCName,
		Issuer:        cfg.OIDCIssuer,
		ClientID:      cfg.OIDCClientID,
		ClientSecret:  cfg.OIDCClientSecret,
		RedirectURL:   cfg.OIDCRedirectURL,
		Scopes:        cfg.OIDCScopes,
		AutoProvision: cfg.OIDCAutoProvision,
	}, logger)
	if err != nil {
		logger.Warn("single sign-on disabled", zap.String("issuer", cfg.OIDCIssuer), zap.Error(err))
		return nil
	}
	logger.Info("single sign-on enabled", zap.String("issuer", cfg.OIDCIssuer))
	return h
}
