package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shop-admin/pkg/api"
	"shop-admin/pkg/app"
	"shop-admin/pkg/auth"
	"shop-admin/pkg/config"
	"shop-admin/pkg/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.BindFlags(flag.CommandLine)
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("controller version=%s", version.String())
		return
	}

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.JWTSecret != "" {
		auth.SetSecret(cfg.JWTSecret)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	backend, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize backend", zap.Error(err))
	}
	defer func() { _ = backend.Close() }()

	opts := api.Options{
		Store:      backend.Store,
		Navigation: backend.Navigation,
		Token:      cfg.AuthToken,
		StoreName:  cfg.DB.Driver,
		Log:        logger,
	}
	if backend.Invalidator != nil {
		opts.Invalidator = backend.Invalidator
	}
	server := api.NewServer(opts)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	mux.Handle("/ui/", http.StripPrefix("/ui/", http.FileServer(http.Dir("web"))))

	if backend.Watcher != nil {
		backend.Watcher.StartWatch(ctx, func() {
			logger.Info("plugin registrations changed")
			server.Hub().Broadcast("", api.Event{Type: api.EventNavigationChanged})
		})
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("controller listening",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.DB.Driver),
		zap.String("version", version.Build))
	if err := api.Serve(srv, cfg.TLSCert, cfg.TLSKey, cfg.ClientCA); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
