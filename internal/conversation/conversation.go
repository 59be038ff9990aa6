// Package conversation holds per-conversation state: the ordered message
// history, turn metadata, and the capped recent-topics list the ambiguity
// detector reads. A Conversation is owned by a single dialog turn loop and is
// not safe for concurrent mutation; the Manager and Store layers add their
// own locking.
package conversation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"clarq/internal/ambiguity"
)

const (
	// maxTopics caps the recent-topics list, most recent first.
	maxTopics = 5
	// topicMinLen is the exclusive length floor for topic candidates.
	topicMinLen = 4
	// DefaultWindow is how many trailing messages a context snapshot carries.
	DefaultWindow = 5
)

// Message is one conversation entry.
type Message struct {
	ID        string
	Role      string
	Content   string
	Timestamp time.Time
}

// Metadata tracks per-conversation counters.
type Metadata struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	TurnCount          int
	AmbiguityRequests  int
	ClarificationCount int
}

// Conversation is a single multi-turn exchange.
type Conversation struct {
	ID       string
	Messages []Message
	Meta     Metadata
	Topics   []string // most recent first, capped at maxTopics
}

// New creates an empty conversation with a fresh ID.
func New() *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:   uuid.NewString(),
		Meta: Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

// Append adds a message and updates the turn counters. Roles "user" and
// "assistant" count as turns; "system" does not.
func (c *Conversation) Append(role, content string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	c.Messages = append(c.Messages, msg)
	c.Meta.UpdatedAt = msg.Timestamp
	if role == "user" || role == "assistant" {
		c.Meta.TurnCount++
	}
	return msg
}

// Recent returns the trailing n messages (all of them when n <= 0 or the
// history is shorter).
func (c *Conversation) Recent(n int) []Message {
	if n <= 0 || n >= len(c.Messages) {
		out := make([]Message, len(c.Messages))
		copy(out, c.Messages)
		return out
	}
	out := make([]Message, n)
	copy(out, c.Messages[len(c.Messages)-n:])
	return out
}

// Context snapshots the trailing n messages and current topics in the shape
// the ambiguity detector consumes.
func (c *Conversation) Context(n int) *ambiguity.Context {
	recent := c.Recent(n)
	msgs := make([]ambiguity.Message, len(recent))
	for i, m := range recent {
		msgs[i] = ambiguity.Message{Role: m.Role, Content: m.Content}
	}
	topics := make([]string, len(c.Topics))
	copy(topics, c.Topics)
	return &ambiguity.Context{RecentMessages: msgs, RecentTopics: topics}
}

// RecordTopics derives a topic from a user query after a non-ambiguous turn:
// the first lowercased token longer than topicMinLen runes is prepended to
// the topics list, which is then capped at maxTopics, most recent first.
// Queries with no qualifying token leave the list unchanged.
func (c *Conversation) RecordTopics(query string) {
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(tok) <= topicMinLen {
			continue
		}
		c.Topics = append([]string{tok}, c.Topics...)
		if len(c.Topics) > maxTopics {
			c.Topics = c.Topics[:maxTopics]
		}
		return
	}
}

// MarkAmbiguityDetected bumps the ambiguity counter.
func (c *Conversation) MarkAmbiguityDetected() {
	c.Meta.AmbiguityRequests++
	c.Meta.UpdatedAt = time.Now().UTC()
}

// MarkClarificationProvided bumps the clarification counter.
func (c *Conversation) MarkClarificationProvided() {
	c.Meta.ClarificationCount++
	c.Meta.UpdatedAt = time.Now().UTC()
}
