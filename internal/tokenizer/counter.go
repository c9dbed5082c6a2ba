package tokenizer

import "github.com/mandalnilabja/genrelay/internal/types"

// Per-message framing overhead. Rough figures; the provider adds its own
// role markers that are not visible to the caller.
const (
	messageOverhead    = 3
	systemOverhead     = 2
	replyPrimingTokens = 3
)

// CountRequest estimates total prompt tokens for a full request.
func (t *TiktokenTokenizer) CountRequest(req *types.MessageRequest) (int, error) {
	total := replyPrimingTokens

	if req.System != "" {
		n, err := t.CountTokens(req.System, req.Model)
		if err != nil {
			return 0, err
		}
		total += n + systemOverhead
	}

	for _, msg := range req.Messages {
		n, err := t.countMessage(msg, req.Model)
		if err != nil {
			return 0, err
		}
		total += n + messageOverhead
	}

	return total, nil
}

// countMessage counts the role and every text block of one message.
func (t *TiktokenTokenizer) countMessage(msg types.Message, model string) (int, error) {
	total, err := t.CountTokens(msg.Role, model)
	if err != nil {
		return 0, err
	}

	for _, block := range msg.Content {
		n, err := t.CountTokens(block.Text, model)
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}
