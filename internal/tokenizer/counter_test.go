package tokenizer

import (
	"testing"

	"github.com/mandalnilabja/genrelay/internal/types"
)

func TestCountRequest(t *testing.T) {
	tok := New()
	requireEncoding(t, tok, "claude-2.1")

	bare := &types.MessageRequest{
		Model:    "claude-2.1",
		Messages: []types.Message{types.NewUserMessage("Write a todo app")},
	}
	withSystem := &types.MessageRequest{
		Model:    "claude-2.1",
		System:   "You are an HTML app generator.",
		Messages: []types.Message{types.NewUserMessage("Write a todo app")},
	}

	bareCount, err := tok.CountRequest(bare)
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}
	if bareCount <= replyPrimingTokens+messageOverhead {
		t.Errorf("CountRequest() = %d, expected prompt text to be counted", bareCount)
	}

	systemCount, err := tok.CountRequest(withSystem)
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}
	if systemCount <= bareCount+systemOverhead {
		t.Errorf("expected system prompt to add tokens: bare=%d with_system=%d", bareCount, systemCount)
	}
}

func TestCountRequest_NoMessages(t *testing.T) {
	tok := New()

	count, err := tok.CountRequest(&types.MessageRequest{Model: "claude-2.1"})
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}
	if count != replyPrimingTokens {
		t.Errorf("CountRequest() = %d, want %d", count, replyPrimingTokens)
	}
}
