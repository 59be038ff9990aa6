package ambiguity

import (
	"regexp"
	"strings"
)

// QueryType names the clarifying angle surfaced for an ambiguous query.
type QueryType string

const (
	TypeReference  QueryType = "reference"
	TypeTime       QueryType = "time"
	TypeLocation   QueryType = "location"
	TypeQuantity   QueryType = "quantity"
	TypeComparison QueryType = "comparison"
	TypePreference QueryType = "preference"
	TypeVagueTerm  QueryType = "vague_term"
	TypeGeneral    QueryType = "general"
)

// TypeResult is the classifier's output: the first matching type in priority
// order and the literal lowercased substring that matched. MatchedText is
// empty for TypeGeneral.
type TypeResult struct {
	Type        QueryType
	MatchedText string
}

type typeGroup struct {
	qt       QueryType
	matchers []*regexp.Regexp
}

// typePriority fixes which clarifying angle wins when several ambiguity types
// are present at once. A query containing both "it" and "when" classifies as
// reference, never time. The order must stay stable for reproducible output.
var typePriority = []typeGroup{
	{TypeReference, compileAll(
		`\b(this|that|these|those|it|they|them)\b`,
		`\bthe (one|thing|item|option|alternative)\b`,
	)},
	{TypeTime, compileAll(
		`\b(when|time|period|duration|schedule|date)\b`,
		`\b(now|then|later|soon|earlier|before|after)\b`,
	)},
	{TypeLocation, compileAll(
		`\b(where|place|location|area|region|spot|site)\b`,
		`\b(here|there|nearby|around|close|far)\b`,
	)},
	{TypeQuantity, compileAll(
		`\b(how many|how much|quantity|amount|number|count)\b`,
		`\b(few|little|lot|lots|some|many|much)\b`,
	)},
	{TypeComparison, compileAll(
		`\b(compare|comparison|versus|vs|better|worse|different|similar)\b`,
		`\b(like|as|than|to)\b`,
	)},
	{TypePreference, compileAll(
		`\b(prefer|preference|like|want|need|desire|recommend|suggestion)\b`,
		`\b(best|better|good|great|excellent|outstanding)\b`,
	)},
	{TypeVagueTerm, compileAll(
		`\b(good|bad|nice|great|awesome|terrible|horrible)\b`,
		`\b(thing|stuff|item|option|alternative|solution|problem)\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Classify finds the first ambiguity type whose matcher set hits the query,
// scanning groups in priority order and matchers within a group in order.
// Queries matching nothing classify as general with no matched text.
func Classify(query string) TypeResult {
	lower := strings.ToLower(query)
	for _, g := range typePriority {
		for _, re := range g.matchers {
			if m := re.FindString(lower); m != "" {
				return TypeResult{Type: g.qt, MatchedText: m}
			}
		}
	}
	return TypeResult{Type: TypeGeneral}
}
