package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/config"
	"github.com/mikepea/vibehunt/pkg/vibehunt/database"
	"github.com/mikepea/vibehunt/pkg/vibehunt/logging"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"github.com/mikepea/vibehunt/pkg/vibehunt/upvotes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Vibehunt API
// @version 1.0
// @description A community directory of vibe coding tools and resources, enriched by a completion API and ranked by upvotes.

// @contact.name Vibehunt Support
// @contact.url https://github.com/mikepea/vibehunt

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token or API key. Format: "Bearer {token}"

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vibehunt-server",
		Short:        "Vibehunt resource directory server",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "reconcile-votes",
			Short: "Recompute every product's upvote count from its votes",
			RunE:  runReconcileVotes,
		},
	)
	return root
}

// bootstrap loads configuration, builds the logger and opens a migrated
// database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Connect(cfg.DBDriver, cfg.DBDSN); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations completed", zap.String("driver", cfg.DBDriver))

	return cfg, logger, db, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	_, logger, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	return nil
}

func runReconcileVotes(cmd *cobra.Command, _ []string) error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	corrected, err := upvotes.ReconcileCounts(cmd.Context(), db)
	if err != nil {
		return err
	}
	logger.Info("vote counts reconciled", zap.Int64("corrected", corrected))
	fmt.Fprintf(cmd.OutOrStdout(), "corrected %d product(s)\n", corrected)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	auth.SetSecret(cfg.JWTSecret)
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, using development secret")
	}
	if cfg.PerplexityAPIKey == "" {
		logger.Warn("PERPLEXITY_API_KEY not set, submissions will use hostname fallbacks")
	}

	created, err := auth.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user exists: %w", err)
	}
	if created {
		logger.Info("created default admin user", zap.String("email", cfg.AdminEmail))
	}

	router, err := newRouter(cfg, db, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// Submissions block on enrichment.
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.EnrichmentTimeout + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting vibehunt server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
