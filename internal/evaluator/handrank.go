package evaluator

// Category is an ordered poker hand category. Higher is better.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the strength of a poker hand: an ordered category plus a
// numeric tiebreak used only within the same category. The tiebreak packs
// the contributing card values most significant first, four bits per card,
// so plain integer comparison orders hands correctly inside a category.
type HandRank struct {
	Category Category `json:"category"`
	Tiebreak uint32   `json:"tiebreak"`
}

// String returns the display name of the hand
func (h HandRank) String() string {
	return h.Category.String()
}

// Compare returns -1 if a is weaker than b, 1 if stronger, 0 if equal.
// Category always dominates the tiebreak.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	if a.Tiebreak != b.Tiebreak {
		if a.Tiebreak < b.Tiebreak {
			return -1
		}
		return 1
	}
	return 0
}

// pack folds card values into a single tiebreak, most significant first
func pack(values ...int) uint32 {
	var t uint32
	for _, v := range values {
		t = t<<4 | uint32(v)
	}
	return t
}
