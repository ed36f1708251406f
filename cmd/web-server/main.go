package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mangasearch/internal/history"
	"mangasearch/internal/live"
	"mangasearch/internal/manga"
	"mangasearch/internal/mangadex"
	"mangasearch/internal/server"
	"mangasearch/pkg/database"
	"mangasearch/pkg/utils"
)

const userAgent = "mangasearch/1.0"

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		// logger config is part of cfg, so fall back to defaults here
		utils.NewLogger(utils.LogConfig{}).Fatalf("load config: %v", err)
	}
	logger := utils.NewLogger(cfg.Log)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbCfg := database.Config{DSN: cfg.DB.DSN}
	db, err := database.Open(dbCfg)
	if err != nil {
		logger.WithError(err).Fatal("open database")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db, dbCfg.Dialect()); err != nil {
		cancelMigrate()
		logger.WithError(err).Fatal("db migrate failed")
	}
	cancelMigrate()

	catalog := mangadex.NewClient(mangadex.Options{
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.Catalog.Timeout,
		RatePerSecond: cfg.Catalog.Rate,
		Burst:         cfg.Catalog.Burst,
		UserAgent:     userAgent,
	})
	lookup := manga.NewService(catalog, manga.Normalizer{CoverBaseURL: cfg.Catalog.CoverBaseURL}, logger)

	hub := live.NewHub(logger)
	historySvc := history.NewService(history.NewRepo(db, dbCfg.Dialect()), hub)

	router := server.NewRouter(server.Deps{
		DB:       db,
		Dialect:  string(dbCfg.Dialect()),
		Lookup:   lookup,
		Recorder: historySvc,
		History:  historySvc,
		Hub:      hub,
		Log:      logger,

		TrustedProxies: cfg.Server.TrustedProxies,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-errCh:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown error")
	}
	logger.Info("server stopped")
}
