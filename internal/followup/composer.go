package followup

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"clarq/internal/ambiguity"
)

// anaphoricPronoun flags queries that implicitly lean on a prior topic.
var anaphoricPronoun = regexp.MustCompile(`\b(it|this|that|these|those)\b`)

// Rand is the injectable randomness source behind template draws. *rand.Rand
// satisfies it. Tests pin a fixed source to make output exact.
type Rand interface {
	Intn(n int) int
}

// Composer turns ambiguity assessments into clarifying questions. Aside from
// draws on its Rand it is stateless; a Composer is safe for concurrent use
// when its Rand is.
type Composer struct {
	rand   Rand
	logger *zap.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithRand injects the randomness source used for template draws.
func WithRand(r Rand) ComposerOption {
	return func(c *Composer) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithComposerLogger attaches a logger for fallback-path debug output.
func WithComposerLogger(l *zap.Logger) ComposerOption {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewComposer builds a composer. Without WithRand it seeds its own source
// from the clock.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose produces one clarifying question for the query. The fallback chain
// is exhaustive and never returns an empty string:
//
//  1. not ambiguous           -> random general template
//  2. typed match + reference -> typed template with the reference substituted
//  3. assessment reasons      -> question derived from the highest-priority reason
//  4. nothing at all          -> random general template
//
// ctx is accepted for interface symmetry with the detector; the per-reason
// chain does not consult it.
func (c *Composer) Compose(query string, a ambiguity.Assessment, ctx *ambiguity.Context) string {
	if !a.IsAmbiguous {
		return c.pickGeneral()
	}

	if res := ambiguity.Classify(query); res.Type != ambiguity.TypeGeneral && res.MatchedText != "" {
		pool, ok := typedTemplates[res.Type]
		if !ok {
			pool = generalTemplates
		}
		tpl := pool[c.rand.Intn(len(pool))]
		q := strings.ReplaceAll(tpl, placeholderFor(res.Type), res.MatchedText)
		c.logger.Debug("composed typed follow-up",
			zap.String("type", string(res.Type)),
			zap.String("reference", res.MatchedText))
		return q
	}

	if len(a.Reasons) > 0 {
		focus := focusReason(a.Reasons)
		c.logger.Debug("composed reason follow-up", zap.Int("kind", int(focus.Kind)))
		return questionFromReason(focus)
	}

	return c.pickGeneral()
}

// focusReason applies the override priority: the first unresolved-pronoun
// reason wins, then the first short-query reason, then the first reason in
// detection order.
func focusReason(reasons []ambiguity.Reason) ambiguity.Reason {
	for _, r := range reasons {
		if r.Kind == ambiguity.ReasonPronounMissing {
			return r
		}
	}
	for _, r := range reasons {
		if r.Kind == ambiguity.ReasonShortQuery {
			return r
		}
	}
	return reasons[0]
}

// questionFromReason maps a single tagged reason to a clarifying question.
func questionFromReason(r ambiguity.Reason) string {
	switch r.Kind {
	case ambiguity.ReasonPronounMissing:
		if r.Match != "" {
			return fmt.Sprintf("When you mention '%s', what specifically are you referring to?", r.Match)
		}
		return "Could you clarify what you're referring to in your question?"
	case ambiguity.ReasonShortQuery:
		return "Your question is quite brief. Could you provide more details about what you're looking for?"
	case ambiguity.ReasonGeneralPattern:
		if r.Match != "" {
			return fmt.Sprintf("When you ask '%s', could you be more specific about what you want to know?", r.Match)
		}
		return "Your question contains some ambiguous terms. Could you be more specific?"
	default:
		return "I need more information to answer your question accurately. Could you provide more details?"
	}
}

// ContextualFollowUp asks about the most recent conversation topic. If the
// topic appears verbatim in the query it asks which aspect is meant; if the
// query leans on an anaphoric pronoun it asks whether the topic is the
// referent; otherwise it falls back to a general template.
func (c *Composer) ContextualFollowUp(query string, ctx *ambiguity.Context) string {
	if ctx != nil && len(ctx.RecentTopics) > 0 {
		topic := ctx.RecentTopics[0]
		lower := strings.ToLower(query)

		if strings.Contains(lower, strings.ToLower(topic)) {
			return fmt.Sprintf("Regarding %s, could you specify which aspect you're interested in?", topic)
		}
		if anaphoricPronoun.MatchString(lower) {
			return fmt.Sprintf("Are you asking about %s? If so, could you clarify which aspect you're interested in?", topic)
		}
	}
	return c.pickGeneral()
}

// SpecificClarification draws directly from the per-type clarification pool,
// ignoring any assessment. Unknown types fall back to general templates.
// reference is accepted for call-site symmetry; the pools carry no
// placeholder.
func (c *Composer) SpecificClarification(qt ambiguity.QueryType, reference string) string {
	if pool, ok := clarifications[qt]; ok {
		return pool[c.rand.Intn(len(pool))]
	}
	return c.pickGeneral()
}

func (c *Composer) pickGeneral() string {
	return generalTemplates[c.rand.Intn(len(generalTemplates))]
}
