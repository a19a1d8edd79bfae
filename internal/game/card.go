// internal/game/card.go
package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Rank is one of the four ranks used in Bluff. The ordering only matters for display
// and for deterministic tie-breaks.
type Rank uint8

const (
	Ace Rank = iota
	Jack
	Queen
	King
)

// NumRanks is the number of distinct ranks in the deck.
const NumRanks = 4

// CopiesPerRank is how many cards of each rank the deck holds.
const CopiesPerRank = 4

// DeckSize is the total number of cards in a Bluff deck.
const DeckSize = NumRanks * CopiesPerRank

// AllRanks lists every rank in enumeration order (Ace < Jack < Queen < King).
var AllRanks = [NumRanks]Rank{Ace, Jack, Queen, King}

var rankNames = [NumRanks]string{"Ace", "Jack", "Queen", "King"}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
	return rankNames[r]
}

// Valid reports whether r is one of the four ranks.
func (r Rank) Valid() bool { return r < NumRanks }

// MarshalText encodes the rank by name so JSON payloads read "Queen" rather than 2.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrInvalidRank
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts any casing of a rank name.
func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank converts user input ("queen", " KING ", "A") into a Rank.
// Single-letter abbreviations are accepted.
func ParseRank(s string) (Rank, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidRank)
	}
	for _, r := range AllRanks {
		name := strings.ToLower(rankNames[r])
		if s == name || s == name[:1] {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
}

// Card carries no suit; two cards of the same rank are indistinguishable.
type Card = Rank

// BuildDeck returns the 16-card deck in rank order.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, r := range AllRanks {
		for i := 0; i < CopiesPerRank; i++ {
			deck = append(deck, r)
		}
	}
	return deck
}

// Shuffle returns a uniformly permuted copy of deck.
func Shuffle(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal hands out handSize cards to each of numPlayers players, taking from the
// front of deck. It returns the hands and what remains of the deck. Nothing is
// dealt when the deck cannot cover the request.
func Deal(deck []Card, numPlayers, handSize int) ([]*Hand, []Card, error) {
	if numPlayers <= 0 || handSize <= 0 {
		return nil, deck, fmt.Errorf("deal %d players x %d cards: %w", numPlayers, handSize, ErrInvalidDeal)
	}
	if !dealFits(len(deck), numPlayers, handSize) {
		return nil, deck, &InsufficientCardsError{Requested: dealSize(numPlayers, handSize), Available: len(deck)}
	}
	hands := make([]*Hand, numPlayers)
	for i := range hands {
		hands[i] = NewHand(deck[:handSize]...)
		deck = deck[handSize:]
	}
	remaining := make([]Card, len(deck))
	copy(remaining, deck)
	return hands, remaining, nil
}

// dealFits reports whether available cards cover numPlayers hands of handSize.
// Both counts must be positive.
func dealFits(available, numPlayers, handSize int) bool {
	return handSize <= available/numPlayers
}

// dealSize is the number of cards a deal asks for, saturating at math.MaxInt.
func dealSize(numPlayers, handSize int) int {
	if handSize > math.MaxInt/numPlayers {
		return math.MaxInt
	}
	return handSize * numPlayers
}

// Hand is a multiset of cards owned by exactly one player.
type Hand struct {
	counts [NumRanks]int
}

// NewHand builds a hand holding the given cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{}
	h.Add(cards...)
	return h
}

// Add puts cards into the hand. Cards that are not a valid rank are skipped.
func (h *Hand) Add(cards ...Card) {
	for _, c := range cards {
		if !c.Valid() {
			continue
		}
		h.counts[c]++
	}
}

// Remove takes one card of rank c out of the hand. It reports false and leaves
// the hand untouched when no such card is held.
func (h *Hand) Remove(c Card) bool {
	if !c.Valid() || h.counts[c] == 0 {
		return false
	}
	h.counts[c]--
	return true
}

// Count returns how many cards of rank r the hand holds.
func (h *Hand) Count(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return h.counts[r]
}

// Has reports whether at least one card of rank r is held.
func (h *Hand) Has(r Rank) bool { return h.Count(r) > 0 }

// Len is the number of cards held.
func (h *Hand) Len() int {
	n := 0
	for _, c := range h.counts {
		n += c
	}
	return n
}

// Empty reports whether the hand holds no cards.
func (h *Hand) Empty() bool { return h.Len() == 0 }

// Cards expands the multiset in rank order.
func (h *Hand) Cards() []Card {
	out := make([]Card, 0, h.Len())
	for _, r := range AllRanks {
		for i := 0; i < h.counts[r]; i++ {
			out = append(out, r)
		}
	}
	return out
}

// MostFrequent returns the rank with the highest count, breaking ties by
// enumeration order. ok is false for an empty hand.
func (h *Hand) MostFrequent() (r Rank, ok bool) {
	best := 0
	for _, candidate := range AllRanks {
		if h.counts[candidate] > best {
			best = h.counts[candidate]
			r = candidate
		}
	}
	return r, best > 0
}

func (h *Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
