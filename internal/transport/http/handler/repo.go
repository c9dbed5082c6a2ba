package handler

import (
	"time"

	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/genrelay/internal/transport/http/handler/proxy"
)

// Repo holds the HTTP handler groups served by the relay.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the handler repository
func NewRepo(r *relay.Relay, startTime time.Time) *Repo {
	return &Repo{
		Proxy: proxy.New(r),
		Infra: infra.New(startTime),
	}
}
