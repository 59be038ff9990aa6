// Package ambiguity decides whether a natural-language query carries enough
// detail to answer directly. It scores weighted heuristic signals (question
// words without elaboration, dangling pronouns, subjective terms, bare
// comparisons, very short text) against a fixed pattern library, activates
// extra category-specific patterns based on recent conversation, and
// classifies the dominant ambiguity type so the follow-up layer can ask a
// targeted clarifying question.
//
// All pattern tables are built once at package init and never mutated, so a
// single Detector is safe for concurrent use.
package ambiguity

import "regexp"

// Category identifies a topical pattern group activated by conversation
// context.
type Category string

const (
	CategoryTime       Category = "time"
	CategoryLocation   Category = "location"
	CategoryPerson     Category = "person"
	CategoryQuantity   Category = "quantity"
	CategoryPreference Category = "preference"
)

// contextCategories fixes the declaration order used when reporting active
// categories.
var contextCategories = []Category{
	CategoryTime,
	CategoryLocation,
	CategoryPerson,
	CategoryQuantity,
	CategoryPreference,
}

// Matcher is a text-matching rule over an already-lowercased query. It
// returns the literal substring that triggered the match.
type Matcher interface {
	Match(text string) (string, bool)
}

// Pattern pairs a matcher with its additive score weight and a short label
// used in diagnostics. The label is display text only; scoring and dispatch
// never parse it.
type Pattern struct {
	Label   string
	Weight  float64
	matcher Matcher
}

// Match applies the pattern's matcher.
func (p Pattern) Match(text string) (string, bool) {
	return p.matcher.Match(text)
}

// regexMatcher matches a plain regular expression.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(text string) (string, bool) {
	loc := m.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// guardedMatcher matches a candidate token only when the text following that
// token lacks an anchoring phrase ("what" is ambiguous, "what is the boiling
// point" is not). This is the lookaround-free form of a negative lookahead:
// every occurrence of the token is located first, then its trailing window is
// scanned independently, and absence of the anchor means a match.
type guardedMatcher struct {
	token  *regexp.Regexp
	anchor *regexp.Regexp
}

func (m guardedMatcher) Match(text string) (string, bool) {
	for _, loc := range m.token.FindAllStringIndex(text, -1) {
		if !m.anchor.MatchString(text[loc[1]:]) {
			return text[loc[0]:loc[1]], true
		}
	}
	return "", false
}

func plain(label string, weight float64, expr string) Pattern {
	return Pattern{Label: label, Weight: weight, matcher: regexMatcher{re: regexp.MustCompile(expr)}}
}

func guarded(label string, weight float64, token, anchor string) Pattern {
	return Pattern{
		Label:  label,
		Weight: weight,
		matcher: guardedMatcher{
			token:  regexp.MustCompile(token),
			anchor: regexp.MustCompile(anchor),
		},
	}
}

// generalPatterns is the always-active library, scanned in order. Weights are
// additive; the final score is clamped to 1.0 by the detector.
var generalPatterns = []Pattern{
	// Question words with no qualifying verb phrase after them.
	guarded("question word", 0.3,
		`\b(what|which|how|when|where|who|why)\b`,
		`\b(is|are|was|were|do|does|did|can|could|would|should|will)\b.{3,}`),

	// Demonstratives and "it" with nothing that resolves them.
	guarded("unresolved demonstrative", 0.25,
		`\b(this|that|these|those|it)\b`,
		`\b(is|are|means|refers to)\b`),

	// Indefinite references.
	plain("indefinite reference", 0.2,
		`\b(something|somewhere|someone|somehow|some|any)\b`),

	// Subjective adjectives with no "for <purpose>" qualifier.
	guarded("subjective term", 0.15,
		`\b(good|bad|best|worst|better|worse|great|terrible)\b`,
		`\bfor\b`),

	// Comparison words with no comparison target.
	guarded("bare comparison", 0.2,
		`\b(like|similar|different|compared)\b`,
		`\bto\b.{3,}`),

	// Generic nouns.
	plain("generic noun", 0.15,
		`\b(things?|stuff|items?|options?|alternatives?)\b`),

	// Repeated question marks.
	plain("repeated question marks", 0.3, `\?{2,}`),

	// Very short text (15 characters or fewer).
	plain("very short text", 0.25, `^.{1,15}$`),
}

// contextPatterns holds the per-category libraries consulted only when the
// category is active for the current conversation. Two matchers each: the
// category keyword without a confirming verb, and informal deictic or
// quantifier words without a comparison anchor.
var contextPatterns = map[Category][]Pattern{
	CategoryTime: {
		guarded("when", 0.3, `\bwhen\b`, `\b(is|was|will|did)\b.{3,}`),
		guarded("relative time word", 0.25,
			`\b(now|later|soon|earlier|before|after)\b`, `\b(than|that|the)\b`),
	},
	CategoryLocation: {
		guarded("where", 0.3, `\bwhere\b`, `\b(is|are|was|were)\b.{3,}`),
		guarded("relative place word", 0.25,
			`\b(here|there|nearby|close|far)\b`, `\b(to|from|than)\b`),
	},
	CategoryPerson: {
		guarded("who", 0.3, `\bwho\b`, `\b(is|are|was|were)\b.{3,}`),
		guarded("personal pronoun", 0.25,
			`\b(he|she|they|them|him|her)\b`, `\b(is|are|was|were)\b`),
	},
	CategoryQuantity: {
		guarded("how much/many", 0.3, `\bhow (much|many)\b`, `\b(is|are|was|were)\b.{3,}`),
		guarded("vague quantifier", 0.25,
			`\b(few|little|lot|lots|some|many|much)\b`, `\b(of|than)\b`),
	},
	CategoryPreference: {
		guarded("preference verb", 0.3,
			`\b(prefer|like|want|need|desire)\b`, `\b(to|for|because)\b.{3,}`),
		guarded("superlative", 0.25,
			`\b(better|best|worse|worst)\b`, `\b(than|for|because)\b`),
	},
}

// GeneralPatterns returns the always-active pattern library in scan order.
func GeneralPatterns() []Pattern {
	out := make([]Pattern, len(generalPatterns))
	copy(out, generalPatterns)
	return out
}

// PatternsFor returns the pattern library for a context category in scan
// order. Unknown categories yield an empty list, not an error.
func PatternsFor(cat Category) []Pattern {
	src, ok := contextPatterns[cat]
	if !ok {
		return nil
	}
	out := make([]Pattern, len(src))
	copy(out, src)
	return out
}
