// Package dialog runs the clarify-or-answer loop. Each user message is
// scored for ambiguity against the conversation so far; ambiguous messages
// get a follow-up question, clear ones are answered by the configured
// answer client.
package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"clarq/internal/ambiguity"
	"clarq/internal/answer"
	"clarq/internal/conversation"
	"clarq/internal/followup"
)

// SystemInstruction steers the answer model when a query reaches it.
const SystemInstruction = `You are an interactive assistant designed to provide helpful, accurate, and thoughtful responses.
When a user's question is ambiguous or lacks necessary details, ask follow-up questions to clarify.
Continue asking questions until you have enough information to provide a specific, helpful answer.
Be conversational and friendly in your tone.`

// Turn is the outcome of processing one user message.
type Turn struct {
	ConversationID string
	Reply          string
	IsFollowUp     bool
	Assessment     ambiguity.Assessment
	Model          string
	Usage          answer.Usage
	Timestamp      time.Time
}

// Engine wires the detector, the composer, and the answer client around a
// conversation manager.
type Engine struct {
	detector *ambiguity.Detector
	composer *followup.Composer
	answerer answer.Client
	manager  *conversation.Manager
	window   int
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow sets how many recent messages feed the ambiguity context.
func WithWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine builds a dialog engine. All components are required except the
// options.
func NewEngine(detector *ambiguity.Detector, composer *followup.Composer, answerer answer.Client, manager *conversation.Manager, opts ...Option) *Engine {
	e := &Engine{
		detector: detector,
		composer: composer,
		answerer: answerer,
		manager:  manager,
		window:   conversation.DefaultWindow,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessMessage records the user message, decides between a follow-up
// question and a direct answer, appends the reply to the conversation, and
// persists it. An empty conversation ID starts a new conversation.
func (e *Engine) ProcessMessage(ctx context.Context, conversationID, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty message")
	}

	conv := e.lookup(conversationID)
	conv.Append("user", text)

	// The context snapshot includes the message just added, matching how
	// the detector weighs "recent mentions" of a topic.
	convCtx := conv.Context(e.window)
	assessment := e.detector.Assess(text, convCtx)

	e.logger.Debug("assessed message",
		zap.String("conversation_id", conv.ID),
		zap.Float64("score", assessment.Score),
		zap.Bool("ambiguous", assessment.IsAmbiguous),
		zap.Int("reasons", len(assessment.Reasons)))

	if assessment.IsAmbiguous {
		question := e.composer.Compose(text, assessment, convCtx)
		conv.MarkAmbiguityDetected()
		conv.MarkClarificationProvided()
		conv.Append("assistant", question)
		if err := e.manager.Save(conv); err != nil {
			return nil, fmt.Errorf("failed to save conversation: %w", err)
		}
		return &Turn{
			ConversationID: conv.ID,
			Reply:          question,
			IsFollowUp:     true,
			Assessment:     assessment,
			Timestamp:      time.Now(),
		}, nil
	}

	history := make([]answer.Message, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		history = append(history, answer.Message{Role: msg.Role, Content: msg.Content})
	}

	resp, err := e.answerer.Generate(ctx, history, SystemInstruction)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	conv.Append("assistant", resp.Content)
	conv.RecordTopics(text)
	if err := e.manager.Save(conv); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	return &Turn{
		ConversationID: conv.ID,
		Reply:          resp.Content,
		IsFollowUp:     false,
		Assessment:     assessment,
		Model:          resp.Model,
		Usage:          resp.Usage,
		Timestamp:      time.Now(),
	}, nil
}

// Conversation exposes a conversation by ID for inspection.
func (e *Engine) Conversation(id string) (*conversation.Conversation, bool) {
	return e.manager.Get(id)
}

func (e *Engine) lookup(id string) *conversation.Conversation {
	if id != "" {
		if conv, ok := e.manager.Get(id); ok {
			return conv
		}
		e.logger.Debug("conversation not found, starting new one", zap.String("id", id))
	}
	return e.manager.Create()
}
