package ambiguity

import "strings"

// Message is one entry of recent conversation visible to the detector.
type Message struct {
	Role    string
	Content string
}

// Context is the read-only slice of conversation state the detector and
// composer consume: the most recent messages plus the capped recent-topics
// list, most recent first.
type Context struct {
	RecentMessages []Message
	RecentTopics   []string
}

// relevanceWindow caps how many trailing messages feed category activation.
const relevanceWindow = 5

// categoryIndicators maps each context category to the keywords whose
// presence in recent conversation activates it. Substring containment is
// intentional: "scheduled" activates time via "schedule".
var categoryIndicators = map[Category][]string{
	CategoryTime: {
		"time", "when", "hour", "minute", "day", "date",
		"month", "year", "schedule", "appointment",
	},
	CategoryLocation: {
		"where", "place", "location", "address", "city",
		"country", "region", "area", "direction",
	},
	CategoryPerson: {
		"who", "person", "people", "name", "individual",
		"user", "customer", "client", "employee",
	},
	CategoryQuantity: {
		"how many", "how much", "number", "amount", "quantity",
		"count", "several", "few", "many",
	},
	CategoryPreference: {
		"prefer", "like", "want", "need", "better",
		"best", "choose", "select", "option",
	},
}

// RelevantCategories maps recent conversation text to the set of active
// pattern categories. The result follows category declaration order and is
// deterministic for a given context. Nil or empty context activates nothing.
func RelevantCategories(ctx *Context) []Category {
	if ctx == nil || len(ctx.RecentMessages) == 0 {
		return nil
	}

	msgs := ctx.RecentMessages
	if len(msgs) > relevanceWindow {
		msgs = msgs[len(msgs)-relevanceWindow:]
	}

	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.Content)
	}
	blob := strings.ToLower(sb.String())

	var active []Category
	for _, cat := range contextCategories {
		for _, kw := range categoryIndicators[cat] {
			if strings.Contains(blob, kw) {
				active = append(active, cat)
				break
			}
		}
	}
	return active
}
