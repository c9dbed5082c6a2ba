// Package relay forwards a single prompt to the Anthropic Messages API and
// selects the text block returned to the caller.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mandalnilabja/genrelay/internal/anthropic"
	"github.com/mandalnilabja/genrelay/internal/reqctx"
	"github.com/mandalnilabja/genrelay/internal/tokenizer"
	"github.com/mandalnilabja/genrelay/internal/types"
)

// tokenCountTimeout is the maximum time to wait for the prompt estimate after
// the upstream call has returned.
const tokenCountTimeout = 100 * time.Millisecond

const msgMissingAPIKey = "ANTHROPIC_API_KEY environment variable is required"

// Messenger performs one Messages API call. *anthropic.Client implements it.
type Messenger interface {
	CreateMessage(ctx context.Context, apiKey string, msg *types.MessageRequest) (*types.MessageResponse, error)
}

// Options configures a Relay. Everything the relay needs is passed here;
// it never reads the environment.
type Options struct {
	Client    Messenger
	APIKey    string
	Profile   Profile
	Logger    *slog.Logger
	Tokenizer tokenizer.Tokenizer // optional
}

// Relay is immutable after New and safe for concurrent use.
type Relay struct {
	client    Messenger
	apiKey    string
	profile   Profile
	logger    *slog.Logger
	tokenizer tokenizer.Tokenizer
}

// New creates a Relay from opts.
func New(opts Options) *Relay {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		client:    opts.Client,
		apiKey:    opts.APIKey,
		profile:   opts.Profile,
		logger:    logger.With("component", "relay", "profile", opts.Profile.Name),
		tokenizer: opts.Tokenizer,
	}
}

// Profile returns the profile the relay was built with.
func (r *Relay) Profile() Profile {
	return r.profile
}

// Generate validates req, calls the provider once and returns the last
// content block of the response. Failures are returned as *Error.
func (r *Relay) Generate(ctx context.Context, req *types.GenerateRequest) (types.ContentBlock, error) {
	start := time.Now()
	requestID := reqctx.RequestID(ctx)

	if err := r.profile.Validate(req); err != nil {
		return types.ContentBlock{}, err
	}

	if r.apiKey == "" {
		return types.ContentBlock{}, newError(KindConfiguration, msgMissingAPIKey, anthropic.ErrNoAPIKey)
	}

	msg := r.profile.BuildMessage(req)

	// Estimate prompt tokens alongside the upstream call; it only feeds the log line.
	var tokensChan chan int
	if r.tokenizer != nil {
		tokensChan = make(chan int, 1)
		go func() {
			defer close(tokensChan)
			if tokens, err := r.tokenizer.CountRequest(msg); err == nil {
				tokensChan <- tokens
			}
		}()
	}

	resp, err := r.client.CreateMessage(ctx, r.apiKey, msg)
	promptTokens := collectTokens(tokensChan)

	if err != nil {
		rerr := classify(err)
		r.logger.Error("anthropic API error",
			"request_id", requestID,
			"kind", rerr.Kind.String(),
			"model", msg.Model,
			"upstream_status", rerr.UpstreamStatus,
			"error", rerr.Message,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return types.ContentBlock{}, rerr
	}

	block, ok := resp.LastBlock()
	if !ok {
		r.logger.Warn("anthropic API returned no content",
			"request_id", requestID,
			"model", msg.Model,
			"stop_reason", resp.StopReason,
		)
		return types.ContentBlock{}, newError(KindEmptyUpstreamResponse, "No content returned from API", nil)
	}

	attrs := []any{
		"request_id", requestID,
		"model", msg.Model,
		"blocks", len(resp.Content),
		"prompt_tokens_est", promptTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if resp.Usage != nil {
		attrs = append(attrs,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}
	r.logger.Info("generate", attrs...)

	return block, nil
}

// collectTokens waits briefly for the background estimate; 0 when unavailable.
func collectTokens(ch <-chan int) int {
	if ch == nil {
		return 0
	}
	select {
	case tokens, ok := <-ch:
		if ok {
			return tokens
		}
	case <-time.After(tokenCountTimeout):
	}
	return 0
}

// classify maps a provider client failure onto a relay error kind.
func classify(err error) *Error {
	var statusErr *anthropic.StatusError
	switch {
	case errors.As(err, &statusErr):
		rerr := newError(KindUpstream, statusErr.Error(), err)
		rerr.UpstreamStatus = statusErr.StatusCode
		return rerr
	case errors.Is(err, anthropic.ErrMalformedResponse):
		return newError(KindUpstreamProtocol, "Failed to parse Anthropic API response: "+err.Error(), err)
	case errors.Is(err, anthropic.ErrNoAPIKey):
		return newError(KindConfiguration, msgMissingAPIKey, err)
	default:
		return newError(KindUpstreamUnavailable, "Failed to reach Anthropic API: "+err.Error(), err)
	}
}
