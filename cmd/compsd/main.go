package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/config"
	"github.com/the-maldridge/ncomps/pkg/http"
	"github.com/the-maldridge/ncomps/pkg/session"
	"github.com/the-maldridge/ncomps/pkg/storage"

	_ "github.com/the-maldridge/ncomps/pkg/storage/bc"
)

func main() {
	ll := os.Getenv("NCOMPS_LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  "compsd",
		Level: hclog.LevelFromString(ll),
	})
	appLogger.Info("compsd is initializing")

	cfg := config.NewConfig()
	if p := os.Getenv("NCOMPS_CONFIG"); p != "" {
		if err := cfg.LoadFromFile(p); err != nil {
			appLogger.Error("Error loading config", "path", p, "error", err)
			os.Exit(1)
		}
	}

	srv, err := http.New(appLogger)
	if err != nil {
		appLogger.Error("Error initializing webserver", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	mgr := session.NewManager(appLogger, cfg)

	var store storage.Storage
	if cfg.Storage != "" {
		storage.SetLogger(appLogger)
		storage.DoCallbacks()
		store, err = storage.Initialize(cfg.Storage)
		if err != nil {
			appLogger.Error("Couldn't initialize storage", "error", err)
			os.Exit(1)
		}
		mgr.EnablePersistence(store)
	}

	if err := mgr.Bootstrap(ctx); err != nil {
		appLogger.Error("Error bootstrapping session", "error", err)
		os.Exit(1)
	}

	srv.Mount("/api/session", mgr.HTTPEntry())
	go func() {
		if err := srv.Serve(cfg.Bind); err != nil {
			appLogger.Error("Webserver stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	srv.Shutdown(sctx)
	if store != nil {
		store.Close()
	}
	appLogger.Info("Goodbye!")
}
