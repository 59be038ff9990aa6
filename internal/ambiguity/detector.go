package ambiguity

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultThreshold is the score at or above which a query is treated as
// ambiguous.
const DefaultThreshold = 0.5

// missingReferenceWeight is added once per pronoun found without a referent.
// Stacking is intentional: more unresolved references mean higher ambiguity.
const missingReferenceWeight = 0.3

// pronouns checked for unresolved references, in scan order.
var pronouns = []string{
	"it", "this", "that", "these", "those",
	"they", "them", "he", "she", "him", "her",
}

var (
	pronounWord     = make(map[string]*regexp.Regexp, len(pronouns))
	pronounReferent = make(map[string]*regexp.Regexp, len(pronouns))
)

func init() {
	for _, p := range pronouns {
		pronounWord[p] = regexp.MustCompile(`\b` + p + `\b`)
		// "it is a noun" style constructions count as self-resolving.
		pronounReferent[p] = regexp.MustCompile(`\b` + p + `\b\s+(is|are)\s+[a-z]+`)
	}
}

// Detector scores queries for ambiguity. The zero-cost construction path is
// NewDetector(); detectors are immutable and safe for concurrent use.
type Detector struct {
	threshold float64
	logger    *zap.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithThreshold overrides the ambiguity threshold.
func WithThreshold(t float64) DetectorOption {
	return func(d *Detector) { d.threshold = t }
}

// WithDetectorLogger attaches a logger for per-signal debug output.
func WithDetectorLogger(l *zap.Logger) DetectorOption {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDetector builds a detector with the default threshold unless overridden.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Threshold reports the configured ambiguity threshold.
func (d *Detector) Threshold() float64 { return d.threshold }

// Assess scores a query against the pattern library, context-activated
// patterns, missing-reference detection, and length tiers. ctx may be nil.
// Every input is valid: an empty query has zero words and lands in the
// shortest length tier.
func (d *Detector) Assess(query string, ctx *Context) Assessment {
	lower := strings.ToLower(query)

	var score float64
	var reasons []Reason

	for _, p := range generalPatterns {
		if m, ok := p.Match(lower); ok {
			score += p.Weight
			reasons = append(reasons, Reason{
				Kind:  ReasonGeneralPattern,
				Label: p.Label,
				Match: m,
			})
		}
	}

	if ctx != nil {
		for _, cat := range RelevantCategories(ctx) {
			for _, p := range contextPatterns[cat] {
				if m, ok := p.Match(lower); ok {
					score += p.Weight
					reasons = append(reasons, Reason{
						Kind:     ReasonContextPattern,
						Label:    p.Label,
						Match:    m,
						Category: cat,
					})
				}
			}
		}
	}

	for _, p := range missingReferences(lower, ctx) {
		score += missingReferenceWeight
		reasons = append(reasons, Reason{
			Kind:  ReasonPronounMissing,
			Label: "unresolved reference",
			Match: p,
		})
	}

	// Length tiers are mutually exclusive: first match wins.
	switch words := len(strings.Fields(query)); {
	case words < 3:
		score += 0.3
		reasons = append(reasons, Reason{Kind: ReasonShortQuery, Label: "very short (less than 3 words)"})
	case words < 5:
		score += 0.2
		reasons = append(reasons, Reason{Kind: ReasonShortQuery, Label: "short (less than 5 words)"})
	case words < 8:
		score += 0.1
		reasons = append(reasons, Reason{Kind: ReasonShortQuery, Label: "relatively short (less than 8 words)"})
	}

	// Clamp only after all additions so signal stacking stays monotonic.
	if score > 1.0 {
		score = 1.0
	}

	a := Assessment{
		Score:       score,
		Reasons:     reasons,
		IsAmbiguous: score >= d.threshold,
		Threshold:   d.threshold,
	}

	d.logger.Debug("query assessed",
		zap.Float64("score", a.Score),
		zap.Bool("ambiguous", a.IsAmbiguous),
		zap.Int("reasons", len(a.Reasons)))

	return a
}

// IsAmbiguous is the boolean shortcut over Assess.
func (d *Detector) IsAmbiguous(query string, ctx *Context) bool {
	return d.Assess(query, ctx).IsAmbiguous
}

// missingReferences returns the pronouns that occur as whole words without a
// local referent and cannot be resolved from context (context absent, or
// present with no recent messages).
func missingReferences(lower string, ctx *Context) []string {
	var found []string
	for _, p := range pronouns {
		if !pronounWord[p].MatchString(lower) {
			continue
		}
		if pronounReferent[p].MatchString(lower) {
			continue
		}
		if ctx == nil || len(ctx.RecentMessages) == 0 {
			found = append(found, p)
		}
	}
	return found
}
