// Package followup composes clarifying questions from an ambiguity
// assessment. Every path terminates in a non-empty question string through a
// layered fallback chain: typed template with reference substitution, then
// reason-driven question, then a general template. Template pools are
// immutable package data.
package followup

import "clarq/internal/ambiguity"

// Placeholder tokens are literal text in the template pools; each template
// carries at most one.
func placeholderFor(qt ambiguity.QueryType) string {
	if qt == ambiguity.TypeVagueTerm {
		return "{vague_term}"
	}
	if qt == ambiguity.TypeReference {
		return "{reference}"
	}
	return "{" + string(qt) + "_reference}"
}

var generalTemplates = []string{
	"Could you provide more details about your question? This would help me give you a more accurate answer.",
	"I'm not entirely sure what you're asking. Could you rephrase your question with more specific information?",
	"To better assist you, I need some additional context. Could you elaborate on your question?",
	"Your question could be interpreted in several ways. Could you clarify exactly what you're looking for?",
	"I want to make sure I understand your question correctly. Could you provide more specific details?",
}

var typedTemplates = map[ambiguity.QueryType][]string{
	ambiguity.TypeReference: {
		"When you mention '{reference}', could you clarify what specifically you're referring to?",
		"I'm not sure what '{reference}' refers to in this context. Could you explain?",
		"To understand your question better, could you specify what you mean by '{reference}'?",
	},
	ambiguity.TypeTime: {
		"When you ask about '{time_reference}', which time period are you referring to?",
		"Could you specify the timeframe you're interested in?",
		"To answer your question about time, I need to know which specific period you're asking about.",
	},
	ambiguity.TypeLocation: {
		"When you mention '{location_reference}', which specific location are you referring to?",
		"Could you specify which place or area you're asking about?",
		"To answer your question about location, I need to know which specific place you're interested in.",
	},
	ambiguity.TypeQuantity: {
		"When you ask about '{quantity_reference}', what range or specific amount are you looking for?",
		"Could you specify the quantity or range you have in mind?",
		"To answer your question about quantity, I need to know what specific amount or range you're interested in.",
	},
	ambiguity.TypeComparison: {
		"When you ask about '{comparison_reference}', what specific aspects would you like me to compare?",
		"Could you specify what criteria you'd like me to use for this comparison?",
		"To make a meaningful comparison, I need to know which specific aspects are important to you.",
	},
	ambiguity.TypePreference: {
		"When you ask about '{preference_reference}', what specific criteria or preferences should I consider?",
		"Could you tell me more about your preferences or requirements for this?",
		"To recommend something that meets your needs, I need to understand your specific preferences.",
	},
	ambiguity.TypeVagueTerm: {
		"When you use the term '{vague_term}', could you explain what you mean more specifically?",
		"The term '{vague_term}' can be interpreted in different ways. Could you clarify what you mean?",
		"To understand your question about '{vague_term}', I need a more specific definition of what you're looking for.",
	},
}

// clarifications backs SpecificClarification: direct per-type question pools
// that skip the assessment entirely.
var clarifications = map[ambiguity.QueryType][]string{
	ambiguity.TypeTime: {
		"Which specific time period are you referring to?",
		"Are you asking about past, present, or future?",
		"Could you specify the date or time range you're interested in?",
	},
	ambiguity.TypeLocation: {
		"Which specific location are you asking about?",
		"Are you referring to a local area or somewhere else?",
		"Could you provide more geographic details about the location you're interested in?",
	},
	ambiguity.TypeQuantity: {
		"What specific quantity or range are you looking for?",
		"Are you asking about an exact number or an approximate range?",
		"Could you specify the units or scale you're interested in?",
	},
	ambiguity.TypeComparison: {
		"Which specific aspects would you like me to compare?",
		"What criteria should I use for this comparison?",
		"Could you specify which features are most important for this comparison?",
	},
	ambiguity.TypePreference: {
		"What specific criteria or preferences should I consider?",
		"Could you tell me more about your requirements or constraints?",
		"What factors are most important to you for this recommendation?",
	},
}

// GeneralPool returns the fixed general template pool. Useful for callers
// asserting that a composed question came from the fallback set.
func GeneralPool() []string {
	out := make([]string, len(generalTemplates))
	copy(out, generalTemplates)
	return out
}
