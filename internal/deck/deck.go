package deck

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Deck represents an ordered deck of playing cards, consumed front-to-back.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new 52-card deck in canonical order (suits S,H,D,C,
// ranks 2..A within each suit). The deck is not shuffled.
func New() *Deck {
	deck := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			deck.cards = append(deck.cards, NewCard(rank, suit))
		}
	}

	return deck
}

// NewSeeded creates a new deck whose shuffles are driven by the given seed.
// The same seed always produces the same shuffle order.
func NewSeeded(seed string) *Deck {
	d := New()
	d.rng = rand.New(rand.NewSource(seedSource(seed)))
	return d
}

// FromCards creates a deck with an explicit card order, used when replaying
// a recorded deal.
func FromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// seedSource maps an arbitrary seed string to a deterministic rand source
func seedSource(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

// Shuffle permutes the deck in place using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards from the deck
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// DealOne removes and returns the top card from the deck
func (d *Deck) DealOne() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Burn discards the top card before a street is dealt
func (d *Deck) Burn() {
	if len(d.cards) > 0 {
		d.cards = d.cards[1:]
	}
}

// DealHoleCards deals two cards to each of n players, round-robin: one card
// to each player in seat order, then a second. Matches physical dealing.
func (d *Deck) DealHoleCards(n int) [][]Card {
	hands := make([][]Card, n)
	for i := range hands {
		hands[i] = make([]Card, 0, 2)
	}
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			if card, ok := d.DealOne(); ok {
				hands[i] = append(hands[i], card)
			}
		}
	}
	return hands
}

// Cards returns a copy of the remaining cards in order
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
