package types

// RoleUser is the role of the single prompt turn.
const RoleUser = "user"

// ContentTypeText is the only content block type the relay produces.
const ContentTypeText = "text"

// Message is a single conversation turn in a MessageRequest.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one unit of content, either sent to or returned by the provider.
type ContentBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// NewUserMessage wraps a prompt into a single-block user message.
func NewUserMessage(prompt string) Message {
	return Message{
		Role: RoleUser,
		Content: []ContentBlock{
			{Type: ContentTypeText, Text: prompt},
		},
	}
}
