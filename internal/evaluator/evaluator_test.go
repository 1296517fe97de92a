package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/deck"
)

func cards(t *testing.T, codes ...string) []deck.Card {
	t.Helper()
	out := make([]deck.Card, len(codes))
	for i, code := range codes {
		c, err := deck.ParseCard(code)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		codes    []string
		category Category
	}{
		{"royal flush", []string{"As", "Ks", "Qs", "Js", "Ts", "2d", "3c"}, RoyalFlush},
		{"straight flush", []string{"9h", "8h", "7h", "6h", "5h", "Ad", "Ac"}, StraightFlush},
		{"wheel straight flush", []string{"Ac", "2c", "3c", "4c", "5c", "Kd", "Kh"}, StraightFlush},
		{"four of a kind", []string{"7s", "7h", "7d", "7c", "Kd", "2s", "3h"}, FourOfAKind},
		{"full house", []string{"Ts", "Th", "Td", "4c", "4d", "2s", "9h"}, FullHouse},
		{"full house from two trips", []string{"Ts", "Th", "Td", "4c", "4d", "4h", "9s"}, FullHouse},
		{"flush", []string{"As", "Js", "8s", "6s", "2s", "Kd", "Kh"}, Flush},
		{"straight", []string{"9s", "8h", "7d", "6c", "5s", "Ad", "Ah"}, Straight},
		{"wheel straight", []string{"As", "2h", "3d", "4c", "5s", "Kd", "9h"}, Straight},
		{"three of a kind", []string{"8s", "8h", "8d", "Kc", "4s", "2d", "9h"}, ThreeOfAKind},
		{"two pair", []string{"Js", "Jh", "4d", "4c", "As", "2d", "9h"}, TwoPair},
		{"one pair", []string{"Qs", "Qh", "9d", "7c", "4s", "2d", "Ah"}, Pair},
		{"high card", []string{"As", "Jh", "9d", "7c", "4s", "2d", "Kh"}, HighCard},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rank := Evaluate(cards(t, tc.codes...))
			assert.Equal(t, tc.category, rank.Category, "got %s", rank)
		})
	}
}

func TestWheelHighCardIsFive(t *testing.T) {
	t.Parallel()

	wheel := Evaluate(cards(t, "As", "2h", "3d", "4c", "5s"))
	sixHigh := Evaluate(cards(t, "2s", "3h", "4d", "5c", "6s"))

	require.Equal(t, Straight, wheel.Category)
	require.Equal(t, Straight, sixHigh.Category)
	assert.Equal(t, -1, Compare(wheel, sixHigh), "wheel must lose to a six-high straight")
}

func TestCategoryDominatesTiebreak(t *testing.T) {
	t.Parallel()

	// The worst flush beats the best straight.
	flush := Evaluate(cards(t, "7s", "5s", "4s", "3s", "2s"))
	straight := Evaluate(cards(t, "As", "Kh", "Qd", "Jc", "Ts"))

	assert.Equal(t, 1, Compare(flush, straight))
	assert.Equal(t, -1, Compare(straight, flush))
}

func TestKickersBreakTies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		strong []string
		weak   []string
	}{
		{
			"pair kicker",
			[]string{"Qs", "Qh", "Ad", "7c", "4s"},
			[]string{"Qd", "Qc", "Kd", "7h", "4d"},
		},
		{
			"two pair low pair",
			[]string{"Js", "Jh", "9d", "9c", "2s"},
			[]string{"Jd", "Jc", "8d", "8c", "As"},
		},
		{
			"quad kicker",
			[]string{"7s", "7h", "7d", "7c", "Ad"},
			[]string{"7s", "7h", "7d", "7c", "Kd"},
		},
		{
			"full house trips dominate",
			[]string{"Ts", "Th", "Td", "2c", "2d"},
			[]string{"9s", "9h", "9d", "Ac", "Ad"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			strong := Evaluate(cards(t, tc.strong...))
			weak := Evaluate(cards(t, tc.weak...))
			require.Equal(t, strong.Category, weak.Category)
			assert.Equal(t, 1, Compare(strong, weak))
		})
	}
}

func TestExactTieIsZero(t *testing.T) {
	t.Parallel()

	// Same best five cards from different hole cards.
	a := Evaluate(cards(t, "As", "Ah", "Kd", "Kc", "Qs", "2d", "3h"))
	b := Evaluate(cards(t, "Ad", "Ac", "Kh", "Ks", "Qd", "4c", "5h"))

	assert.Equal(t, 0, Compare(a, b))
}

func TestCompareIsTransitiveAcrossCategories(t *testing.T) {
	t.Parallel()

	ordered := []HandRank{
		Evaluate(cards(t, "As", "Jh", "9d", "7c", "4s")),              // high card
		Evaluate(cards(t, "Qs", "Qh", "9d", "7c", "4s")),              // pair
		Evaluate(cards(t, "Js", "Jh", "4d", "4c", "As")),              // two pair
		Evaluate(cards(t, "8s", "8h", "8d", "Kc", "4s")),              // trips
		Evaluate(cards(t, "9s", "8h", "7d", "6c", "5s")),              // straight
		Evaluate(cards(t, "As", "Js", "8s", "6s", "2s")),              // flush
		Evaluate(cards(t, "Ts", "Th", "Td", "4c", "4d")),              // full house
		Evaluate(cards(t, "7s", "7h", "7d", "7c", "Kd")),              // quads
		Evaluate(cards(t, "9h", "8h", "7h", "6h", "5h")),              // straight flush
		Evaluate(cards(t, "As", "Ks", "Qs", "Js", "Ts")),              // royal flush
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%s vs %s", ordered[i], ordered[j])
			case i > j:
				assert.Equal(t, 1, got, "%s vs %s", ordered[i], ordered[j])
			default:
				assert.Equal(t, 0, got)
			}
		}
	}
}

func TestPartialHandDegradesToHighCard(t *testing.T) {
	t.Parallel()

	a := Evaluate(cards(t, "As", "Kh"))
	b := Evaluate(cards(t, "Qs", "Jh"))

	assert.Equal(t, HighCard, a.Category)
	assert.Equal(t, HighCard, b.Category)
	assert.Equal(t, 1, Compare(a, b))
}

func TestPartialHandsCompareByValueNotCount(t *testing.T) {
	t.Parallel()

	three := Evaluate(cards(t, "As", "Kh", "Qd"))
	four := Evaluate(cards(t, "5c", "4d", "3h", "2s"))

	assert.Equal(t, 1, Compare(three, four), "ace high beats five high regardless of card count")

	two := Evaluate(cards(t, "As", "Kh"))
	assert.Equal(t, 1, Compare(three, two), "the queen kicker still breaks the tie")
}
