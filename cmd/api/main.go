package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gate2way/gate2way-backend/config"
	"github.com/gate2way/gate2way-backend/internal/bootstrap"
	drafthttp "github.com/gate2way/gate2way-backend/internal/drafts/http"
	"github.com/gate2way/gate2way-backend/internal/drafts/service"
	"github.com/gate2way/gate2way-backend/internal/gateway"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.Init(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	logger.Info("starting gate2way draft service",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.String("session_store", cfg.Session.Store),
	)

	ctx := context.Background()
	sessions, err := bootstrap.OpenSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("session store", zap.Error(err))
	}
	defer func() {
		if err := sessions.Close(5 * time.Second); err != nil {
			logger.Warn("session store close", zap.Error(err))
		}
	}()

	client := gateway.NewClient(cfg.RemoteAPI.URL, gateway.Config{
		Token:   cfg.RemoteAPI.Token,
		Timeout: cfg.RemoteAPI.Timeout,
		RPS:     cfg.RemoteAPI.RPS,
		Burst:   cfg.RemoteAPI.Burst,
	})

	manager := service.NewManager(sessions.Store, client, service.Config{
		RowHeightPx:    cfg.Drafts.CanvasRowHeightPx,
		MaxUploadBytes: cfg.Drafts.UploadMaxBytes,
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "gate2way-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Store:          sessions.Pinger,
		Drafts:         drafthttp.NewHandler(manager, cfg.Drafts.UploadMaxBytes),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2 * gateway.UploadTimeout,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	} else {
		logger.Info("server exited gracefully")
	}
}
