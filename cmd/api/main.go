package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mandalnilabja/genrelay/internal/anthropic"
	"github.com/mandalnilabja/genrelay/internal/app"
	"github.com/mandalnilabja/genrelay/internal/config"
	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/tokenizer"
	"github.com/mandalnilabja/genrelay/internal/transport/http/handler"
)

// shutdownTimeout bounds how long in-flight generations may finish after a signal.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	// A missing .env is normal; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("could not create config file", "path", config.ConfigPath(), "error", err)
	}

	if cfg.APIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY is not set; /generate will answer with a configuration error")
	}

	client := anthropic.NewClient(cfg.AnthropicBaseURL, cfg.UpstreamTimeout)
	profile := relay.Server.Override(cfg.ProfileOverrides())

	r := relay.New(relay.Options{
		Client:    client,
		APIKey:    cfg.APIKey,
		Profile:   profile,
		Logger:    logger,
		Tokenizer: tokenizer.New(),
	})

	repo := handler.NewRepo(r, startTime)
	router := app.NewRouter(repo, &app.RouterOptions{Logger: logger})
	srv := app.NewServer(cfg, router, logger)

	printStartupBanner(cfg, profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
