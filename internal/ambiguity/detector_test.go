package ambiguity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess_BareQuestionWord(t *testing.T) {
	d := NewDetector()
	a := d.Assess("What?", nil)

	// question word with no verb phrase (0.3), very short text (0.25),
	// under 3 words (0.3)
	assert.InDelta(t, 0.85, a.Score, 1e-9)
	assert.True(t, a.IsAmbiguous)
	require.Len(t, a.Reasons, 3)
	assert.Equal(t, ReasonGeneralPattern, a.Reasons[0].Kind)
	assert.Equal(t, "what", a.Reasons[0].Match)
	assert.Equal(t, ReasonShortQuery, a.Reasons[2].Kind)
}

func TestAssess_FullySpecifiedQuestion(t *testing.T) {
	d := NewDetector()
	a := d.Assess("What is the boiling point of water at sea level?", nil)

	assert.Zero(t, a.Score)
	assert.False(t, a.IsAmbiguous)
	assert.Empty(t, a.Reasons)
}

func TestAssess_StackedSignalsClampToOne(t *testing.T) {
	d := NewDetector()
	a := d.Assess("Is it good?", nil)

	// demonstrative (0.25), subjective term (0.15), very short text (0.25),
	// unresolved "it" (0.3), under 5 words (0.2): sum 1.15 clamps to 1.0
	assert.Equal(t, 1.0, a.Score)
	assert.True(t, a.IsAmbiguous)
	assert.Len(t, a.Reasons, 5)
}

func TestAssess_EmptyQuery(t *testing.T) {
	d := NewDetector()
	a := d.Assess("", nil)

	// zero words lands in the shortest length tier and nothing else fires
	assert.InDelta(t, 0.3, a.Score, 1e-9)
	assert.False(t, a.IsAmbiguous)
	require.Len(t, a.Reasons, 1)
	assert.Equal(t, ReasonShortQuery, a.Reasons[0].Kind)
}

func TestAssess_ScoreAlwaysInRange(t *testing.T) {
	d := NewDetector()
	queries := []string{
		"",
		"?",
		"????",
		"Is it good or bad for them???",
		"what which how when where who why",
		"Please give me a detailed comparison of the two largest cloud providers by market share in 2025.",
	}
	for _, q := range queries {
		a := d.Assess(q, nil)
		assert.GreaterOrEqual(t, a.Score, 0.0, "query %q", q)
		assert.LessOrEqual(t, a.Score, 1.0, "query %q", q)
		assert.Equal(t, a.Score >= a.Threshold, a.IsAmbiguous, "query %q", q)
	}
}

func TestAssess_MonotonicUnderAddedSignals(t *testing.T) {
	d := NewDetector()

	// Each pair adds one triggering pattern to the base query while keeping
	// the base query's matches and its length tier intact, so the extended
	// score may never drop below the base score.
	cases := []struct {
		name string
		base string
		ext  string
	}{
		{"generic noun added", "compare quality overall always", "compare quality stuff overall"},
		{"generic noun added, longer tier", "please describe the documented process", "please describe the documented stuff"},
		{"dangling pronoun added", "describe the gadget briefly today", "describe it the gadget briefly"},
		{"already clamped", "Is it good?", "Is it good???"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := d.Assess(tc.base, nil)
			ext := d.Assess(tc.ext, nil)
			assert.GreaterOrEqual(t, ext.Score, base.Score)
			assert.GreaterOrEqual(t, len(ext.Reasons), len(base.Reasons))
		})
	}
}

func TestAssess_Deterministic(t *testing.T) {
	d := NewDetector()
	ctx := &Context{RecentMessages: []Message{{Role: "user", Content: "what time is the meeting"}}}

	first := d.Assess("when?", ctx)
	second := d.Assess("when?", ctx)
	assert.Equal(t, first, second)
}

func TestAssess_ContextActivatesCategoryPatterns(t *testing.T) {
	d := NewDetector()
	ctx := &Context{RecentMessages: []Message{
		{Role: "user", Content: "let me check the schedule for today"},
	}}

	withCtx := d.Assess("when?", ctx)
	withoutCtx := d.Assess("when?", nil)

	assert.Greater(t, withCtx.Score, 0.0)
	var contextReasons []Reason
	for _, r := range withCtx.Reasons {
		if r.Kind == ReasonContextPattern {
			contextReasons = append(contextReasons, r)
		}
	}
	require.NotEmpty(t, contextReasons)
	assert.Equal(t, CategoryTime, contextReasons[0].Category)

	for _, r := range withoutCtx.Reasons {
		assert.NotEqual(t, ReasonContextPattern, r.Kind)
	}
}

func TestAssess_PronounSignalsStack(t *testing.T) {
	d := NewDetector()
	a := d.Assess("it and they", nil)

	var pronounReasons []string
	for _, r := range a.Reasons {
		if r.Kind == ReasonPronounMissing {
			pronounReasons = append(pronounReasons, r.Match)
		}
	}
	assert.Equal(t, []string{"it", "they"}, pronounReasons)
}

func TestAssess_SelfResolvingPronoun(t *testing.T) {
	d := NewDetector()
	a := d.Assess("it is a hammer", nil)

	for _, r := range a.Reasons {
		assert.NotEqual(t, ReasonPronounMissing, r.Kind)
	}
}

func TestAssess_RecentMessagesResolvePronouns(t *testing.T) {
	d := NewDetector()
	ctx := &Context{RecentMessages: []Message{
		{Role: "user", Content: "Tell me about the Eiffel Tower"},
	}}

	a := d.Assess("what about it", ctx)
	for _, r := range a.Reasons {
		assert.NotEqual(t, ReasonPronounMissing, r.Kind)
	}
}

func TestAssess_LengthTiersAreExclusive(t *testing.T) {
	d := NewDetector()
	cases := []struct {
		query string
		label string
	}{
		{"hi there", "very short (less than 3 words)"},
		{"hello there my friend", "short (less than 5 words)"},
		{"hello there my dear friend and colleague", "relatively short (less than 8 words)"},
	}
	for _, tc := range cases {
		a := d.Assess(tc.query, nil)
		var lengthReasons []Reason
		for _, r := range a.Reasons {
			if r.Kind == ReasonShortQuery {
				lengthReasons = append(lengthReasons, r)
			}
		}
		require.Len(t, lengthReasons, 1, "query %q", tc.query)
		assert.Equal(t, tc.label, lengthReasons[0].Label, "query %q", tc.query)
	}
}

func TestDetector_ThresholdOverride(t *testing.T) {
	strict := NewDetector(WithThreshold(0.9))
	lax := NewDetector(WithThreshold(0.2))

	// scores 0.3: one length tier only
	assert.False(t, strict.IsAmbiguous("", nil))
	assert.True(t, lax.IsAmbiguous("", nil))
	assert.Equal(t, 0.9, strict.Threshold())
}

func TestReasonString(t *testing.T) {
	cases := []struct {
		reason Reason
		want   string
	}{
		{
			Reason{Kind: ReasonGeneralPattern, Label: "question word", Match: "what"},
			"Query contains ambiguous pattern: question word",
		},
		{
			Reason{Kind: ReasonContextPattern, Label: "when", Category: CategoryTime},
			"Query contains ambiguous time reference: when",
		},
		{
			Reason{Kind: ReasonPronounMissing, Match: "it"},
			"Query uses pronoun 'it' without clear referent",
		},
		{
			Reason{Kind: ReasonShortQuery, Label: "very short (less than 3 words)"},
			"Query is very short (less than 3 words)",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.reason.String())
	}
}
