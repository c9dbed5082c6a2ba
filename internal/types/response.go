package types

// MessageResponse is the subset of a Messages API response the relay reads.
// Content is nil when the provider omits it or sends null.
type MessageResponse struct {
	ID         string         `json:"id,omitempty"`
	Model      string         `json:"model,omitempty"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
	Usage      *Usage         `json:"usage,omitempty"`
}

// LastBlock returns the final content block, or false when there is none.
func (r *MessageResponse) LastBlock() (ContentBlock, bool) {
	if r == nil || len(r.Content) == 0 {
		return ContentBlock{}, false
	}
	return r.Content[len(r.Content)-1], true
}

// Usage represents token usage reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// TextResult is the body returned by the text-shaped relay profile.
type TextResult struct {
	Text string `json:"text"`
}
