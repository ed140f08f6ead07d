package main

import (
	"go.uber.org/zap"

	"scicalc/internal/config"
	"scicalc/internal/mcptools"
	"scicalc/internal/observability"
	"scicalc/internal/session"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger (stderr; stdout carries the protocol)
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	store, err := session.Open(cfg.StorePath)
	if err != nil {
		observability.Logger.Fatal("opening session store failed", zap.Error(err))
	}
	defer store.Close()

	manager := session.NewManager(store,
		session.WithLogger(observability.Logger.Named("session")),
		session.WithAngleMode(cfg.AngleMode),
	)

	srv := mcptools.NewServer(cfg.ServiceName, version, manager, observability.Logger)
	if err := srv.ServeStdio(); err != nil {
		observability.Logger.Error("mcp server stopped", zap.Error(err))
	}
}
