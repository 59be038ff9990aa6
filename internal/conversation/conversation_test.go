package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_CountsUserAndAssistantTurns(t *testing.T) {
	c := New()
	require.NotEmpty(t, c.ID)

	c.Append("user", "hello")
	c.Append("assistant", "hi")
	c.Append("system", "internal note")

	assert.Equal(t, 2, c.Meta.TurnCount)
	assert.Len(t, c.Messages, 3)
	assert.False(t, c.Meta.UpdatedAt.Before(c.Meta.CreatedAt))
}

func TestRecent(t *testing.T) {
	c := New()
	for i := 0; i < 7; i++ {
		c.Append("user", fmt.Sprintf("message %d", i))
	}

	recent := c.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, "message 2", recent[0].Content)
	assert.Equal(t, "message 6", recent[4].Content)

	all := c.Recent(0)
	assert.Len(t, all, 7)
}

func TestContext_SnapshotsMessagesAndTopics(t *testing.T) {
	c := New()
	c.Append("user", "tell me about weather")
	c.Append("assistant", "it is sunny")
	c.Topics = []string{"weather"}

	ctx := c.Context(5)
	require.Len(t, ctx.RecentMessages, 2)
	assert.Equal(t, "user", ctx.RecentMessages[0].Role)
	assert.Equal(t, []string{"weather"}, ctx.RecentTopics)

	// mutating the snapshot must not touch the conversation
	ctx.RecentTopics[0] = "altered"
	assert.Equal(t, []string{"weather"}, c.Topics)
}

func TestRecordTopics(t *testing.T) {
	t.Run("first long token wins", func(t *testing.T) {
		c := New()
		c.RecordTopics("the weather in Paris")
		assert.Equal(t, []string{"weather"}, c.Topics)
	})

	t.Run("short tokens are skipped", func(t *testing.T) {
		c := New()
		c.RecordTopics("tell me this now")
		assert.Empty(t, c.Topics)
	})

	t.Run("token length counts runes, not bytes", func(t *testing.T) {
		c := New()
		// "über" is four runes (five bytes) and must not qualify
		c.RecordTopics("über alles heute")
		assert.Equal(t, []string{"alles"}, c.Topics)
	})

	t.Run("most recent first, capped at five", func(t *testing.T) {
		c := New()
		words := []string{"alpha1", "bravo2", "charlie", "delta4", "echo55", "foxtrot"}
		for _, w := range words {
			c.RecordTopics(w)
		}
		assert.Equal(t, []string{"foxtrot", "echo55", "delta4", "charlie", "bravo2"}, c.Topics)
	})
}

func TestCounters(t *testing.T) {
	c := New()
	c.MarkAmbiguityDetected()
	c.MarkAmbiguityDetected()
	c.MarkClarificationProvided()

	assert.Equal(t, 2, c.Meta.AmbiguityRequests)
	assert.Equal(t, 1, c.Meta.ClarificationCount)
}
