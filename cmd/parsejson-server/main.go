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
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-parsejson/pkg/config"
	"github.com/goliatone/go-parsejson/pkg/logging"
	"github.com/goliatone/go-parsejson/pkg/page"
	"github.com/goliatone/go-parsejson/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	opts := []server.OptionFn{
		server.WithLogger(logger),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
		server.WithMaxDepth(cfg.MaxDepth),
		server.WithMode(cfg.Mode()),
	}
	if cfg.TemplatesDir != "" {
		pages, err := page.New(page.WithBaseDir(cfg.TemplatesDir))
		if err != nil {
			log.Fatalf("Failed to load templates: %v", err)
		}
		opts = append(opts, server.WithPages(pages))
	}

	handler, err := server.NewHandler(opts...)
	if err != nil {
		log.Fatalf("Failed to build handler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, logger, cfg, handler); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, logger *zap.Logger, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("mode", string(cfg.Mode())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
