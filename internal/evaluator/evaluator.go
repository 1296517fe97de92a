package evaluator

// 5-7 card hand evaluator built on per-suit rank bitmasks. Rank r of a suit
// occupies bit r (bits 2..14), so straight detection is mask arithmetic and
// the wheel gets its own mask with the ace counting low.

import (
	"math/bits"
	"sort"

	"github.com/lox/holdem-engine/internal/deck"
)

const wheelMask = 1<<14 | 1<<5 | 1<<4 | 1<<3 | 1<<2 // A-5-4-3-2

// Evaluate ranks a combination of 5 to 7 cards as the best 5-card poker
// hand. Fewer than 5 cards degrades to a high-card comparison of whatever
// is available; that path never occurs at a real showdown.
func Evaluate(cards []deck.Card) HandRank {
	if len(cards) < 5 {
		return highCardRank(cards)
	}

	var suitMasks [4]uint16
	var counts [15]int
	for _, c := range cards {
		suitMasks[c.Suit] |= 1 << c.Rank
		counts[c.Rank]++
	}

	rankMask := suitMasks[0] | suitMasks[1] | suitMasks[2] | suitMasks[3]

	// Flush: any suit holding five or more cards.
	flushSuit := -1
	for suit, mask := range suitMasks {
		if bits.OnesCount16(mask) >= 5 {
			flushSuit = suit
			break
		}
	}

	// Straight flush beats everything else, so check it first.
	if flushSuit >= 0 {
		if high := straightHigh(suitMasks[flushSuit]); high > 0 {
			if high == int(deck.Ace) {
				return HandRank{Category: RoyalFlush}
			}
			return HandRank{Category: StraightFlush, Tiebreak: pack(high)}
		}
	}

	quad, trips, pairs := groupRanks(counts)

	if quad > 0 {
		kicker := highestRankExcept(rankMask, quad)
		return HandRank{Category: FourOfAKind, Tiebreak: pack(quad, kicker)}
	}

	if len(trips) > 0 {
		// Second trips counts as the pair of a full house.
		pairRank := 0
		if len(trips) > 1 {
			pairRank = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pairRank {
			pairRank = pairs[0]
		}
		if pairRank > 0 {
			return HandRank{Category: FullHouse, Tiebreak: pack(trips[0], pairRank)}
		}
	}

	if flushSuit >= 0 {
		return HandRank{Category: Flush, Tiebreak: packTopRanks(suitMasks[flushSuit], 5)}
	}

	if high := straightHigh(rankMask); high > 0 {
		return HandRank{Category: Straight, Tiebreak: pack(high)}
	}

	if len(trips) > 0 {
		k1, k2 := topTwoExcept(rankMask, trips[0], 0)
		return HandRank{Category: ThreeOfAKind, Tiebreak: pack(trips[0], k1, k2)}
	}

	if len(pairs) >= 2 {
		kicker := highestRankExcept(rankMask, pairs[0], pairs[1])
		return HandRank{Category: TwoPair, Tiebreak: pack(pairs[0], pairs[1], kicker)}
	}

	if len(pairs) == 1 {
		k1, k2 := topTwoExcept(rankMask, pairs[0], 0)
		k3 := highestRankExcept(rankMask, pairs[0], k1, k2)
		return HandRank{Category: Pair, Tiebreak: pack(pairs[0], k1, k2, k3)}
	}

	return HandRank{Category: HighCard, Tiebreak: packTopRanks(rankMask, 5)}
}

// straightHigh returns the high card of the best straight in the rank mask,
// 0 if there is none. The wheel's high card is 5, not the ace.
func straightHigh(mask uint16) int {
	run := uint16(0x1F) << 10 // A-K-Q-J-T occupies bits 10..14
	for high := int(deck.Ace); high >= 6; high-- {
		if mask&run == run {
			return high
		}
		run >>= 1
	}
	if mask&wheelMask == wheelMask {
		return 5
	}
	return 0
}

// groupRanks splits rank counts into the best quad, trips (descending) and
// pairs (descending)
func groupRanks(counts [15]int) (quad int, trips, pairs []int) {
	for rank := int(deck.Ace); rank >= int(deck.Two); rank-- {
		switch counts[rank] {
		case 4:
			if quad == 0 {
				quad = rank
			}
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		}
	}
	return quad, trips, pairs
}

// highestRankExcept returns the highest rank present in the mask that is not
// one of the excluded ranks
func highestRankExcept(mask uint16, except ...int) int {
	for rank := int(deck.Ace); rank >= int(deck.Two); rank-- {
		if mask&(1<<rank) == 0 {
			continue
		}
		excluded := false
		for _, e := range except {
			if rank == e {
				excluded = true
				break
			}
		}
		if !excluded {
			return rank
		}
	}
	return 0
}

// topTwoExcept returns the two highest ranks in the mask excluding the given
// ranks
func topTwoExcept(mask uint16, e1, e2 int) (int, int) {
	first := highestRankExcept(mask, e1, e2)
	second := highestRankExcept(mask, e1, e2, first)
	return first, second
}

// packTopRanks packs the n highest ranks of the mask into a tiebreak
func packTopRanks(mask uint16, n int) uint32 {
	var t uint32
	for rank := int(deck.Ace); rank >= int(deck.Two) && n > 0; rank-- {
		if mask&(1<<rank) != 0 {
			t = t<<4 | uint32(rank)
			n--
		}
	}
	return t
}

// highCardRank is the degraded comparison for partial hands
func highCardRank(cards []deck.Card) HandRank {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	if len(values) > 5 {
		values = values[:5]
	}
	// Pad to a fixed width so a short hand compares by card values
	// rather than card count.
	for len(values) < 5 {
		values = append(values, 0)
	}
	return HandRank{Category: HighCard, Tiebreak: pack(values...)}
}
