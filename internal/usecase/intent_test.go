package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mfc-voice-agent/internal/domain"
)

func TestRespondToMessage_IntentSelection(t *testing.T) {
	cases := []struct {
		name       string
		message    string
		wantIntent string
		wantScore  int
	}{
		{"greeting", "Hello there", "greeting", 5},
		{"pricing", "what does a ton of cake cost", "pricing", 25},
		{"protein", "do you carry protein tubs", "protein", 20},
		{"mineral", "need a spring mineral program", "mineral", 20},
		{"delivery", "can you deliver to the ranch", "delivery", 15},
		{"product by name", "tell me about range boss", "product", 20},
		{"operation", "we run a cow-calf outfit", "operation", 15},
		{"fallback", "what's the weather like", "clarification", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := RespondToMessage(tc.message, domain.CustomerContext{})
			require.Equal(t, tc.wantIntent, res.Intent)
			require.Equal(t, tc.wantScore, res.Score)
			require.NotEmpty(t, res.Reply)
		})
	}
}

func TestRespondToMessage_PricingBeatsProtein(t *testing.T) {
	res := RespondToMessage("how much does protein supplement cost?", domain.CustomerContext{})
	require.Equal(t, "pricing", res.Intent)
	require.Equal(t, 25, res.Score)
	require.Equal(t, []string{"pricing", "financing"}, res.Topics)
}

func TestRespondToMessage_ShipIsNotAGreeting(t *testing.T) {
	// "ship" contains "hi", but greeting tokens only match whole words, so
	// shipping questions route to delivery.
	res := RespondToMessage("can you ship to Dillon?", domain.CustomerContext{})
	require.Equal(t, "delivery", res.Intent)
}

func TestRespondToMessage_BareHiGreets(t *testing.T) {
	for _, msg := range []string{"hi", "Hi!", "hey", "Hi, anyone there?"} {
		res := RespondToMessage(msg, domain.CustomerContext{})
		require.Equal(t, "greeting", res.Intent, "message %q", msg)
	}
}

func TestRespondToMessage_Deterministic(t *testing.T) {
	ctx := domain.CustomerContext{Name: "Guy", County: "Beaverhead", HerdSize: 250}
	first := RespondToMessage("price on mineral tubs", ctx)
	second := RespondToMessage("price on mineral tubs", ctx)
	require.Equal(t, first, second)
}

func TestRespondToMessage_ContextPersonalizesReply(t *testing.T) {
	res := RespondToMessage("hello", domain.CustomerContext{Name: "Guy"})
	require.Contains(t, res.Reply, "Guy")

	res = RespondToMessage("protein for winter", domain.CustomerContext{HerdSize: 250})
	require.Contains(t, res.Reply, "250")

	res = RespondToMessage("pricing please", domain.CustomerContext{TerritoryName: "Southwest Montana"})
	require.Contains(t, res.Reply, "Southwest Montana")
}

func TestRespondToMessage_TopicsAreACopy(t *testing.T) {
	first := RespondToMessage("mineral", domain.CustomerContext{})
	first.Topics[0] = "mutated"
	second := RespondToMessage("mineral", domain.CustomerContext{})
	require.Equal(t, []string{"minerals"}, second.Topics)
}
