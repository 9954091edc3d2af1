package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"mfc-voice-agent/internal/domain"
)

// IntentResponse is one canned reply plus the qualification signal it adds.
type IntentResponse struct {
	Intent string
	Reply  string
	Score  int
	Topics []string
}

// intentRule is one keyword group. Order matters: the responder walks the
// rules in declaration order and the first matching group wins, so a message
// containing both "price" and "protein" always gets the pricing reply.
// keywords match as substrings; words match whole tokens only, for short
// greetings like "hi" that would otherwise hide inside "shipping".
type intentRule struct {
	intent   string
	keywords []string
	words    []string
	score    int
	topics   []string
	reply    func(ctx domain.CustomerContext) string
}

var intentRules = []intentRule{
	{
		intent:   "greeting",
		keywords: []string{"hello", "good morning", "good afternoon"},
		words:    []string{"hi", "hey"},
		score:    5,
		topics:   nil,
		reply: func(ctx domain.CustomerContext) string {
			if ctx.Name != "" {
				return fmt.Sprintf("Good to hear from you again, %s! What can I help you with today?", ctx.Name)
			}
			return "Thanks for calling Montana Feed Company! I can help with products, pricing, delivery, or finding your local specialist. What can I do for you?"
		},
	},
	{
		intent:   "pricing",
		keywords: []string{"price", "cost", "how much", "pricing", "financing"},
		score:    25,
		topics:   []string{"pricing", "financing"},
		reply: func(ctx domain.CustomerContext) string {
			msg := "Pricing depends on volume and delivery location, and we offer seasonal financing on bulk orders."
			if ctx.TerritoryName != "" {
				msg += fmt.Sprintf(" Your %s territory specialist can quote exact numbers for your operation.", ctx.TerritoryName)
			} else {
				msg += " I can connect you with your local specialist for an exact quote."
			}
			return msg
		},
	},
	{
		intent:   "protein",
		keywords: []string{"protein", "supplement", "tub", "cake"},
		score:    20,
		topics:   []string{"protein", "supplements"},
		reply: func(ctx domain.CustomerContext) string {
			msg := "Our protein tubs and range cake keep condition on cattle through winter grazing."
			if ctx.HerdSize > 0 {
				msg += fmt.Sprintf(" For a herd of %d we'd usually start with one tub per 25 head.", ctx.HerdSize)
			}
			return msg
		},
	},
	{
		intent:   "mineral",
		keywords: []string{"mineral", "salt", "trace"},
		score:    20,
		topics:   []string{"minerals"},
		reply: func(ctx domain.CustomerContext) string {
			msg := "We carry loose mineral and salt programs matched to Montana forage, including high-mag formulas for spring turnout."
			if ctx.County != "" {
				msg += fmt.Sprintf(" Several ranches in %s County are on our year-round mineral program.", ctx.County)
			}
			return msg
		},
	},
	{
		intent:   "delivery",
		keywords: []string{"delivery", "deliver", "ship", "freight", "pickup"},
		score:    15,
		topics:   []string{"delivery"},
		reply: func(domain.CustomerContext) string {
			return "We run weekly delivery routes out of each warehouse and most ranch deliveries land within five business days. Bulk orders over two tons ride free."
		},
	},
	{
		intent:   "product",
		keywords: []string{"rancher's choice", "range boss", "calf creep", "weather guard"},
		score:    20,
		topics:   []string{"products"},
		reply: func(domain.CustomerContext) string {
			return "That's one of our most popular lines. I can read you the full details, or have your local specialist walk through whether it fits your program."
		},
	},
	{
		intent:   "operation",
		keywords: []string{"cow-calf", "cow calf", "yearling", "stocker", "sheep", "horse", "backgrounding"},
		score:    15,
		topics:   []string{"operation"},
		reply: func(ctx domain.CustomerContext) string {
			if ctx.OperationType != "" {
				return fmt.Sprintf("We work with a lot of %s operations and can build a feed program around your calving and turnout schedule.", ctx.OperationType)
			}
			return "Tell me a little about your operation and I can point you at the right program. How many head are you running?"
		},
	},
}

// clarificationRule is the fallback when nothing matches.
var clarificationRule = intentRule{
	intent: "clarification",
	score:  5,
	reply: func(domain.CustomerContext) string {
		return "I want to make sure I point you in the right direction. Are you asking about products, pricing, delivery, or reaching your local specialist?"
	},
}

// RespondToMessage selects the first matching canned reply for a free-text
// message. Pure function of (message, context): same inputs, same template,
// same score.
func RespondToMessage(message string, ctx domain.CustomerContext) IntentResponse {
	lower := strings.ToLower(message)

	rule := clarificationRule
	for _, r := range intentRules {
		if r.matches(lower) {
			rule = r
			break
		}
	}

	return IntentResponse{
		Intent: rule.intent,
		Reply:  rule.reply(ctx),
		Score:  rule.score,
		Topics: append([]string(nil), rule.topics...),
	}
}

func (r intentRule) matches(lower string) bool {
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, w := range r.words {
		if hasWord(lower, w) {
			return true
		}
	}
	return false
}

func hasWord(lower, word string) bool {
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if tok == word {
			return true
		}
	}
	return false
}
