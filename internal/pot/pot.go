// Package pot converts per-player hand contributions into main and side
// pots and settles them at showdown.
package pot

import (
	"sort"

	"github.com/lox/holdem-engine/internal/evaluator"
)

// Pot represents a main or side pot
type Pot struct {
	Amount      int    `json:"amount"`
	Eligible    []int  `json:"eligiblePlayers"`
	Winners     []int  `json:"winners,omitempty"`
	WinAmount   int    `json:"winAmount"`
	WinningHand string `json:"winningHandName,omitempty"`
}

// Contribution is one player's cumulative contribution to the hand
type Contribution struct {
	Position int
	Amount   int
	Folded   bool
}

// Calculate builds main and side pots from hand contributions.
//
// Contribution tiers are the ascending distinct totals of the non-folded
// players. Each tier's pot collects (tier - previous tier) from every
// player who reached it, and only non-folded players who reached the tier
// are eligible. Folded contributions are added to the first (main) pot
// without eligibility. The result is independent of input order.
func Calculate(contribs []Contribution) []Pot {
	levelSet := make(map[int]bool)
	foldedTotal := 0
	for _, c := range contribs {
		if c.Folded {
			foldedTotal += c.Amount
			continue
		}
		if c.Amount > 0 {
			levelSet[c.Amount] = true
		}
	}

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, c := range contribs {
			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.Position)
			}
		}
		sort.Ints(pot.Eligible)
		pot.Amount = (level - prev) * len(pot.Eligible)

		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}

	if len(pots) == 0 {
		return nil
	}

	// Dead money from folded players belongs to the main pot only.
	pots[0].Amount += foldedTotal
	return pots
}

// Total returns the combined amount across all pots
func Total(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// Distribute marks the winners of each pot: the maximal-ranked hand(s)
// among the pot's eligible players. hands maps position to evaluated rank.
func Distribute(pots []Pot, hands map[int]evaluator.HandRank) {
	for i := range pots {
		pot := &pots[i]
		pot.Winners = nil

		var best evaluator.HandRank
		for _, position := range pot.Eligible {
			rank, ok := hands[position]
			if !ok {
				continue
			}
			switch cmp := evaluator.Compare(rank, best); {
			case len(pot.Winners) == 0 || cmp > 0:
				best = rank
				pot.Winners = []int{position}
			case cmp == 0:
				pot.Winners = append(pot.Winners, position)
			}
		}

		if len(pot.Winners) > 0 {
			sort.Ints(pot.Winners)
			pot.WinningHand = best.String()
		}
	}
}

// Award splits each pot evenly among its winners and returns the payout per
// position. Division is floored; the integer remainder goes to the first
// winner by position. This is arbitrary but deterministic.
func Award(pots []Pot) map[int]int {
	payouts := make(map[int]int)
	for i := range pots {
		pot := &pots[i]
		if len(pot.Winners) == 0 || pot.Amount <= 0 {
			continue
		}

		share := pot.Amount / len(pot.Winners)
		remainder := pot.Amount % len(pot.Winners)

		for _, position := range pot.Winners {
			payouts[position] += share
		}
		payouts[pot.Winners[0]] += remainder
		pot.WinAmount = pot.Amount
	}
	return payouts
}
