package ambiguity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralPatterns(t *testing.T) {
	patterns := GeneralPatterns()
	require.Len(t, patterns, 8)
	for _, p := range patterns {
		assert.NotEmpty(t, p.Label)
		assert.Greater(t, p.Weight, 0.0, "pattern %q", p.Label)
	}
}

func TestPatternsFor(t *testing.T) {
	for _, cat := range []Category{CategoryTime, CategoryLocation, CategoryPerson, CategoryQuantity, CategoryPreference} {
		assert.Len(t, PatternsFor(cat), 2, "category %s", cat)
	}
	assert.Empty(t, PatternsFor(Category("bogus")))
}

func TestPatternsFor_ReturnsCopy(t *testing.T) {
	got := GeneralPatterns()
	original := got[0].Label
	got[0] = Pattern{}
	assert.Equal(t, original, GeneralPatterns()[0].Label)
}

func TestGuardedMatcher_ChecksEachOccurrence(t *testing.T) {
	questionWord := GeneralPatterns()[0]

	t.Run("anchored occurrence does not match", func(t *testing.T) {
		_, ok := questionWord.Match("what is the boiling point")
		assert.False(t, ok)
	})

	t.Run("bare occurrence matches", func(t *testing.T) {
		m, ok := questionWord.Match("what?")
		require.True(t, ok)
		assert.Equal(t, "what", m)
	})

	t.Run("any unanchored occurrence suffices", func(t *testing.T) {
		// "what" is followed by a verb phrase, but the trailing "why" is not
		m, ok := questionWord.Match("what is it really, and why")
		require.True(t, ok)
		assert.Equal(t, "why", m)
	})
}
