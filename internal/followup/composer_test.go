package followup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarq/internal/ambiguity"
)

// fixedRand always returns the same draw (modulo the pool size), making
// template selection exact.
type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func TestCompose_ClearQueryGetsGeneralTemplate(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	a := ambiguity.Assessment{Score: 0.1, IsAmbiguous: false}

	q := c.Compose("What is the boiling point of water?", a, nil)
	assert.Equal(t, GeneralPool()[0], q)
}

func TestCompose_TypedReferenceSubstitution(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	d := ambiguity.NewDetector()

	a := d.Assess("Is it good?", nil)
	require.True(t, a.IsAmbiguous)

	q := c.Compose("Is it good?", a, nil)
	assert.Equal(t, "When you mention 'it', could you clarify what specifically you're referring to?", q)
}

func TestCompose_TypedTemplatesCarryNoPlaceholder(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(1)))
	d := ambiguity.NewDetector()

	a := d.Assess("Is it good?", nil)
	q := c.Compose("Is it good?", a, nil)
	assert.NotContains(t, q, "{")
	assert.NotContains(t, q, "}")
}

func TestCompose_ShortQueryFallback(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	d := ambiguity.NewDetector()

	// repeated question marks classify as no known type, so the composed
	// question comes from the reason chain
	a := d.Assess("??", nil)
	require.True(t, a.IsAmbiguous)

	q := c.Compose("??", a, nil)
	assert.Equal(t, "Your question is quite brief. Could you provide more details about what you're looking for?", q)
}

func TestCompose_PronounReasonTakesPriority(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	a := ambiguity.Assessment{
		Score:       0.8,
		IsAmbiguous: true,
		Reasons: []ambiguity.Reason{
			{Kind: ambiguity.ReasonShortQuery, Label: "very short (less than 3 words)"},
			{Kind: ambiguity.ReasonPronounMissing, Match: "them"},
		},
	}

	q := c.Compose("zzzz", a, nil)
	assert.Equal(t, "When you mention 'them', what specifically are you referring to?", q)
}

func TestCompose_GeneralPatternReasonUsesMatch(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	a := ambiguity.Assessment{
		Score:       0.6,
		IsAmbiguous: true,
		Reasons: []ambiguity.Reason{
			{Kind: ambiguity.ReasonGeneralPattern, Label: "question word", Match: "why"},
		},
	}

	q := c.Compose("zzzz", a, nil)
	assert.Equal(t, "When you ask 'why', could you be more specific about what you want to know?", q)
}

func TestCompose_AmbiguousWithoutReasons(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(2)))
	a := ambiguity.Assessment{Score: 0.6, IsAmbiguous: true}

	q := c.Compose("zzzz", a, nil)
	assert.Equal(t, GeneralPool()[2], q)
}

func TestCompose_NeverEmpty(t *testing.T) {
	c := NewComposer()
	d := ambiguity.NewDetector()
	queries := []string{"", "?", "Is it good?", "What?", "zzzz", "compare them"}
	for _, q := range queries {
		a := d.Assess(q, nil)
		assert.NotEmpty(t, c.Compose(q, a, nil), "query %q", q)
	}
}

func TestContextualFollowUp(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(0)))
	ctx := &ambiguity.Context{RecentTopics: []string{"weather"}}

	t.Run("topic in query", func(t *testing.T) {
		q := c.ContextualFollowUp("tell me about the weather", ctx)
		assert.Equal(t, "Regarding weather, could you specify which aspect you're interested in?", q)
	})

	t.Run("anaphoric pronoun", func(t *testing.T) {
		q := c.ContextualFollowUp("what about it", ctx)
		assert.Equal(t, "Are you asking about weather? If so, could you clarify which aspect you're interested in?", q)
	})

	t.Run("no topical link", func(t *testing.T) {
		q := c.ContextualFollowUp("hello", ctx)
		assert.Contains(t, GeneralPool(), q)
	})

	t.Run("nil context", func(t *testing.T) {
		q := c.ContextualFollowUp("what about it", nil)
		assert.Contains(t, GeneralPool(), q)
	})
}

func TestSpecificClarification(t *testing.T) {
	c := NewComposer(WithRand(fixedRand(1)))

	q := c.SpecificClarification(ambiguity.TypeTime, "later")
	assert.Equal(t, "Are you asking about past, present, or future?", q)

	q = c.SpecificClarification(ambiguity.TypeGeneral, "")
	assert.Contains(t, GeneralPool(), q)
}
