// @title        Relief Exchange API
// @version      1.0
// @description  Matches disaster-relief resource requests with provider offers.
// @BasePath     /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"relief-exchange/internal/config"
	"relief-exchange/internal/delivery/http/route"
	"relief-exchange/internal/logger"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("storage close", zap.Error(err))
		}
	}()

	broker, closeBroker, err := storage.OpenBroker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeBroker() }()

	publisher := realtime.NewAsyncPublisher(broker, cfg.EventQueueSize, log)
	defer publisher.Close()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	// Streams end when shutdown starts; other requests keep their contexts.
	closing, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	app := gin.New()
	app.Use(gin.Recovery())
	route.SetupRoute(app, route.Deps{
		Store:        store,
		Publisher:    publisher,
		Subscriber:   broker,
		RadiusMeters: cfg.RadiusMeters(),
		Logger:       log,
		Closing:      closing,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(stopStreams)
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", cfg.StorageDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
