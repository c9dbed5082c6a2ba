package proxy

import (
	"context"
	"net/http"

	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/transport/http/middleware"
)

// ResolveFunc returns the relay that serves one request.
type ResolveFunc func(ctx context.Context) (*relay.Relay, error)

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	resolve ResolveFunc
}

// New creates proxy handlers bound to a relay built once at startup.
func New(r *relay.Relay) *Handlers {
	return &Handlers{
		resolve: func(context.Context) (*relay.Relay, error) { return r, nil },
	}
}

// NewDeferred creates proxy handlers that build the relay per request, after
// the method gate and body decode have passed. Resolve errors are answered
// as configuration errors.
func NewDeferred(resolve ResolveFunc) *Handlers {
	return &Handlers{resolve: resolve}
}

// Handler returns the generate endpoint with CORS applied, ready to mount on
// any path. OPTIONS preflights never reach Generate.
func (h *Handlers) Handler() http.Handler {
	return middleware.CORS(http.HandlerFunc(h.Generate))
}
