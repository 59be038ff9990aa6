// Package answer generates assistant replies for queries that passed the
// ambiguity gate. Two implementations exist: a Gemini-backed client and a
// deterministic canned client for offline use and tests.
package answer

import "context"

// Message is a single conversation turn handed to the model.
type Message struct {
	Role    string
	Content string
}

// Usage captures token accounting for one generation.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the model output plus metadata.
type Response struct {
	Content      string
	FinishReason string
	Model        string
	Usage        Usage
}

// Client produces a reply for a conversation history. Implementations must
// be safe for concurrent use.
type Client interface {
	Generate(ctx context.Context, messages []Message, system string) (*Response, error)
}
