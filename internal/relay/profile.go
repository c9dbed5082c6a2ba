package relay

import (
	"net/http"

	"github.com/mandalnilabja/genrelay/internal/types"
)

// Shape selects how a successful result is serialized.
type Shape int

const (
	// ShapeText writes {"text": "..."}.
	ShapeText Shape = iota
	// ShapeBlock writes the selected content block object, {"text": "..."}.
	ShapeBlock
)

// Profile holds the per-deployment defaults of the relay.
type Profile struct {
	Name               string
	DefaultModel       string
	DefaultMaxTokens   int
	DefaultTemperature float64
	DefaultSystem      string

	// AllowOverrides lets callers set model, max_tokens, temperature and system.
	// When false those request fields are ignored.
	AllowOverrides bool

	Shape Shape

	// UpstreamFailureStatus is the status for every provider-side failure.
	UpstreamFailureStatus int
}

// Serverless is the profile of the per-request function deployment.
var Serverless = Profile{
	Name:                  "serverless",
	DefaultModel:          "claude-3-haiku-20240307",
	DefaultMaxTokens:      4096,
	DefaultTemperature:    1.0,
	AllowOverrides:        true,
	Shape:                 ShapeText,
	UpstreamFailureStatus: http.StatusInternalServerError,
}

// Server is the profile of the long-running server deployment.
var Server = Profile{
	Name:                  "server",
	DefaultModel:          "claude-2.1",
	DefaultMaxTokens:      2048,
	DefaultTemperature:    1.0,
	AllowOverrides:        false,
	Shape:                 ShapeBlock,
	UpstreamFailureStatus: http.StatusBadGateway,
}

// Overrides replaces profile defaults; zero values keep the profile's own.
type Overrides struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	System      string
}

// Override returns a copy of p with the non-zero fields of o applied.
func (p Profile) Override(o Overrides) Profile {
	if o.Model != "" {
		p.DefaultModel = o.Model
	}
	if o.MaxTokens > 0 {
		p.DefaultMaxTokens = o.MaxTokens
	}
	if o.Temperature != nil {
		p.DefaultTemperature = *o.Temperature
	}
	if o.System != "" {
		p.DefaultSystem = o.System
	}
	return p
}

// Status maps an error kind to the HTTP status this profile answers with.
func (p Profile) Status(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindUpstreamUnavailable, KindUpstream, KindUpstreamProtocol, KindEmptyUpstreamResponse:
		if p.UpstreamFailureStatus != 0 {
			return p.UpstreamFailureStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Validate rejects requests the provider could never serve.
func (p Profile) Validate(req *types.GenerateRequest) error {
	if req.Prompt == "" {
		return newError(KindBadRequest, "Prompt is required", nil)
	}
	if p.AllowOverrides && req.MaxTokens != nil && *req.MaxTokens <= 0 {
		return newError(KindBadRequest, "max_tokens must be a positive integer", nil)
	}
	return nil
}

// BuildMessage fills every omitted field from the profile defaults.
func (p Profile) BuildMessage(req *types.GenerateRequest) *types.MessageRequest {
	msg := &types.MessageRequest{
		Model:       p.DefaultModel,
		MaxTokens:   p.DefaultMaxTokens,
		Temperature: p.DefaultTemperature,
		System:      p.DefaultSystem,
		Messages:    []types.Message{types.NewUserMessage(req.Prompt)},
	}

	if !p.AllowOverrides {
		return msg
	}

	if req.Model != "" {
		msg.Model = req.Model
	}
	if req.MaxTokens != nil {
		msg.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		msg.Temperature = *req.Temperature
	}
	if req.System != "" {
		msg.System = req.System
	}

	return msg
}
