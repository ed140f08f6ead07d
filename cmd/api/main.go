package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"scicalc/internal/calcapi"
	"scicalc/internal/config"
	"scicalc/internal/observability"
	"scicalc/internal/server"
	"scicalc/internal/session"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and log export
	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("telemetry setup failed", zap.Error(err))
	}
	defer shutdown(ctx)

	// Sessions
	store, err := session.Open(cfg.StorePath)
	if err != nil {
		observability.Logger.Fatal("opening session store failed", zap.Error(err))
	}
	defer store.Close()

	manager := session.NewManager(store,
		session.WithLogger(observability.Logger.Named("session")),
		session.WithAngleMode(cfg.AngleMode),
	)
	if err := calcapi.RegisterCollectors(prometheus.DefaultRegisterer, manager); err != nil {
		observability.Logger.Fatal("registering collectors failed", zap.Error(err))
	}

	// Router
	router := server.NewRouter(calcapi.NewHandler(manager), prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("store", storeName(cfg.StorePath)),
			zap.Stringer("angle_mode", cfg.AngleMode),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg)
}

func waitForShutdown(srv *http.Server, cfg config.Config) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("shutdown failed", zap.Error(err))
		return
	}
	observability.Logger.Info("server stopped")
}

func storeName(path string) string {
	if path == "" {
		return "memory"
	}
	return path
}
