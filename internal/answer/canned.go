package answer

import (
	"context"
	"regexp"
	"strings"
)

// CannedClient answers without any network access. It mimics the shape of a
// real model's behavior: a crude ambiguity heuristic decides between a
// clarifying question and a direct answer, and the reply text is picked
// deterministically from fixed pools. Useful for demos and tests.
type CannedClient struct{}

// NewCannedClient returns the offline answer client.
func NewCannedClient() *CannedClient {
	return &CannedClient{}
}

const cannedModel = "clarq-canned"

// Indicator patterns for the canned heuristic. Each hit contributes equally;
// the score is the hit count normalized by the table size.
var cannedIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\b(what|which|how|when|where|who|why)\b`),
	regexp.MustCompile(`\bthis\b|\bthat\b|\bthese\b|\bthose\b|\bit\b`),
	regexp.MustCompile(`\bsomething\b|\bsomewhere\b|\bsomeone\b|\bsomehow\b`),
	regexp.MustCompile(`\bgood\b|\bbad\b|\bbest\b|\bworst\b`),
	regexp.MustCompile(`\blike\b|\bsimilar\b`),
	regexp.MustCompile(`\bthings?\b|\bstuff\b|\bitem\b`),
	regexp.MustCompile(`\?{2,}`),
	regexp.MustCompile(`^.{1,15}$`),
}

var (
	cannedHowRe       = regexp.MustCompile(`\bhow\b`)
	cannedHowAnchorRe = regexp.MustCompile(`\bhow (to|do|does|can|could|would|should)\b`)
	cannedWhatRe      = regexp.MustCompile(`\bwhat\b`)
	cannedDemonRe     = regexp.MustCompile(`\bthis\b|\bthat\b|\bit\b`)
	cannedIsRe        = regexp.MustCompile(`\bis\b`)
	cannedBestRe      = regexp.MustCompile(`\bbest\b|\bbetter\b`)
	cannedCompareRe   = regexp.MustCompile(`\blike\b|\bsimilar\b`)
)

var cannedClarifications = []string{
	"Could you provide more details about your question? This would help me give you a more accurate answer.",
	"I'm not entirely sure what you're asking. Could you rephrase your question with more specific information?",
	"To better assist you, I need some additional context. Could you elaborate on your question?",
	"Your question could be interpreted in several ways. Could you clarify exactly what you're looking for?",
	"I want to make sure I understand your question correctly. Could you provide more specific details?",
}

var cannedAnswers = []string{
	"Based on my understanding, the answer to your question is that modern AI systems use transformer architectures with attention mechanisms to process and generate text. These models are trained on large datasets of text from the internet and books.",
	"According to research, regular exercise, a balanced diet, adequate sleep, and stress management are key factors in maintaining good health. Experts recommend at least 150 minutes of moderate exercise per week.",
	"The concept you're asking about was developed in the early 20th century and has evolved significantly since then. Current applications include technology, education, and healthcare sectors.",
	"From my analysis, there are three main approaches to solving this problem: the iterative method, the recursive method, and the mathematical optimization method. Each has its own advantages depending on the specific constraints.",
	"The latest research suggests that this phenomenon is caused by a combination of environmental factors and genetic predisposition. Scientists are currently conducting further studies to better understand the underlying mechanisms.",
}

// Generate picks a reply for the most recent user message. It never errors.
func (c *CannedClient) Generate(_ context.Context, messages []Message, _ string) (*Response, error) {
	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}

	var content string
	if c.ambiguity(last) > 0.5 {
		content = c.clarification(last)
	} else {
		content = c.directAnswer(last)
	}

	return &Response{
		Content:      content,
		FinishReason: "stop",
		Model:        cannedModel,
		Usage: Usage{
			InputTokens:  len(strings.Fields(last)),
			OutputTokens: len(strings.Fields(content)),
		},
	}, nil
}

func (c *CannedClient) ambiguity(message string) float64 {
	lower := strings.ToLower(message)
	hits := 0
	for _, re := range cannedIndicators {
		if re.MatchString(lower) {
			hits++
		}
	}
	score := float64(hits) / float64(len(cannedIndicators))

	words := len(strings.Fields(message))
	if words < 5 {
		score += 0.3
	} else if words < 10 {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func (c *CannedClient) clarification(message string) string {
	lower := strings.ToLower(message)

	if cannedHowRe.MatchString(lower) && !cannedHowAnchorRe.MatchString(lower) {
		return "Could you clarify what aspect you're asking about? For example, are you asking about a process, a measurement, or something else?"
	}
	if cannedWhatRe.MatchString(lower) && len(strings.Fields(message)) < 6 {
		return "Your question seems quite broad. Could you provide more specific details about what you're looking for?"
	}
	if cannedDemonRe.MatchString(lower) && !cannedIsRe.MatchString(lower) {
		return "I'm not sure what you're referring to. Could you be more specific about what you mean?"
	}
	if cannedBestRe.MatchString(lower) {
		return "To recommend the best option, I need to understand your specific criteria or preferences. What factors are most important to you?"
	}
	if cannedCompareRe.MatchString(lower) {
		return "To suggest similar items, I need to know what specific aspects you're interested in. Could you elaborate on what features or characteristics matter most to you?"
	}

	return cannedClarifications[len(message)%len(cannedClarifications)]
}

func (c *CannedClient) directAnswer(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "weather"):
		return "Based on the latest data, the weather is expected to be sunny with a high of 25°C (77°F) and a low of 15°C (59°F). There's a 10% chance of precipitation."
	case strings.Contains(lower, "time"):
		return "The current time is 10:30 AM in your local timezone."
	case strings.Contains(lower, "name"):
		return "My name is Clarq, an assistant built to answer questions and untangle ambiguous ones."
	case strings.Contains(lower, "help"), strings.Contains(lower, "can you"):
		return "I'd be happy to help you with that. I can assist with answering questions, providing information, generating content, and discussing various topics. What specific assistance do you need?"
	case strings.Contains(lower, "thank"):
		return "You're welcome! I'm glad I could be of assistance. If you have any other questions, feel free to ask."
	}

	return cannedAnswers[len(message)%len(cannedAnswers)]
}
