package types

// GenerateRequest is the inbound body accepted by the relay.
// Optional numeric fields use pointers to distinguish between unset and zero values.
type GenerateRequest struct {
	// Required
	Prompt string `json:"prompt"`

	// Generation parameters, defaulted by the relay profile when omitted
	Model       string   `json:"model,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	System      string   `json:"system,omitempty"`
}

// MessageRequest is the payload sent to the Anthropic Messages API.
type MessageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}
