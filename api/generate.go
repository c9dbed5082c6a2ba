// Package handler is the serverless entry point. The host invokes Handler
// once per request; every path is served by the relay.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mandalnilabja/genrelay/internal/anthropic"
	"github.com/mandalnilabja/genrelay/internal/config"
	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/tokenizer"
	"github.com/mandalnilabja/genrelay/internal/transport/http/handler/proxy"
	"github.com/mandalnilabja/genrelay/internal/transport/http/middleware"
)

// Process-wide state, built on cold start and reused by warm invocations.
var (
	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	tok    = tokenizer.New()

	clientsMu sync.Mutex
	clients   = map[clientKey]*anthropic.Client{}
)

type clientKey struct {
	baseURL string
	timeout time.Duration
}

// sharedClient returns the provider client for the given settings, creating
// it on first use.
func sharedClient(baseURL string, timeout time.Duration) *anthropic.Client {
	key := clientKey{baseURL: baseURL, timeout: timeout}

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[key]; ok {
		return c
	}
	c := anthropic.NewClient(baseURL, timeout)
	clients[key] = c
	return c
}

// Handler is the serverless function entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	middleware.RequestID(proxy.NewDeferred(buildRelay).Handler()).ServeHTTP(w, r)
}

// buildRelay reads the environment for this invocation. It runs only for
// POST requests with a decodable body.
func buildRelay(ctx context.Context) (*relay.Relay, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("invalid configuration",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return nil, err
	}

	return relay.New(relay.Options{
		Client:    sharedClient(cfg.AnthropicBaseURL, cfg.UpstreamTimeout),
		APIKey:    cfg.APIKey,
		Profile:   relay.Serverless.Override(cfg.ProfileOverrides()),
		Logger:    logger,
		Tokenizer: tok,
	}), nil
}
