package ambiguity

import "fmt"

// ReasonKind discriminates the signal that produced a Reason. The follow-up
// composer dispatches on this tag; the display string exists for logs and
// transcripts only.
type ReasonKind int

const (
	// ReasonGeneralPattern marks a hit from the always-active library.
	ReasonGeneralPattern ReasonKind = iota
	// ReasonContextPattern marks a hit from a context-activated category
	// library.
	ReasonContextPattern
	// ReasonPronounMissing marks a pronoun with no resolvable referent.
	ReasonPronounMissing
	// ReasonShortQuery marks a length-tier adjustment.
	ReasonShortQuery
)

// Reason records one triggered signal. Label is the pattern's diagnostic
// name, Match the literal lowercased substring that fired (the pronoun
// itself for ReasonPronounMissing, empty for length tiers), and Category is
// set only for ReasonContextPattern.
type Reason struct {
	Kind     ReasonKind
	Label    string
	Match    string
	Category Category
}

// String renders the human-readable form used in transcripts and logs.
func (r Reason) String() string {
	switch r.Kind {
	case ReasonContextPattern:
		return fmt.Sprintf("Query contains ambiguous %s reference: %s", r.Category, r.Label)
	case ReasonPronounMissing:
		return fmt.Sprintf("Query uses pronoun '%s' without clear referent", r.Match)
	case ReasonShortQuery:
		return "Query is " + r.Label
	default:
		return fmt.Sprintf("Query contains ambiguous pattern: %s", r.Label)
	}
}

// Assessment is the scorer's verdict for a single query. Reasons preserve
// detection order. Invariants: Score is clamped to [0,1], and
// IsAmbiguous == (Score >= Threshold).
type Assessment struct {
	Score       float64
	Reasons     []Reason
	IsAmbiguous bool
	Threshold   float64
}

// ReasonStrings renders every reason in detection order.
func (a Assessment) ReasonStrings() []string {
	out := make([]string, len(a.Reasons))
	for i, r := range a.Reasons {
		out[i] = r.String()
	}
	return out
}
