package game

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeck(t *testing.T) {
	deck := BuildDeck()
	require.Len(t, deck, DeckSize)
	h := NewHand(deck...)
	for _, r := range AllRanks {
		assert.Equal(t, CopiesPerRank, h.Count(r), "copies of %s", r)
	}
}

func TestShuffleIsSeededPermutation(t *testing.T) {
	deck := BuildDeck()
	a := Shuffle(rand.New(rand.NewPCG(7, 0)), deck)
	b := Shuffle(rand.New(rand.NewPCG(7, 0)), deck)
	assert.Equal(t, a, b, "same seed, same order")
	assert.ElementsMatch(t, deck, a)
	assert.Equal(t, BuildDeck(), deck, "input deck is not modified")
}

func TestDeal(t *testing.T) {
	hands, rest, err := Deal(BuildDeck(), 3, 5)
	require.NoError(t, err)
	require.Len(t, hands, 3)
	for _, h := range hands {
		assert.Equal(t, 5, h.Len())
	}
	assert.Len(t, rest, 1)

	total := len(rest)
	for _, h := range hands {
		total += h.Len()
	}
	assert.Equal(t, DeckSize, total)
}

func TestDealInsufficientCards(t *testing.T) {
	deck := BuildDeck()
	hands, rest, err := Deal(deck, 4, 5)
	require.Error(t, err)
	assert.Nil(t, hands)
	assert.Len(t, rest, DeckSize, "nothing is dealt")

	var insufficient *InsufficientCardsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 20, insufficient.Requested)
	assert.Equal(t, DeckSize, insufficient.Available)
}

func TestDealHugeHandSize(t *testing.T) {
	hands, rest, err := Deal(BuildDeck(), 4, 1<<62)
	var insufficient *InsufficientCardsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, math.MaxInt, insufficient.Requested)
	assert.Nil(t, hands)
	assert.Len(t, rest, DeckSize)

	_, _, err = Deal(BuildDeck(), 3, math.MaxInt)
	require.True(t, errors.As(err, &insufficient))
}

func TestDealInvalid(t *testing.T) {
	_, _, err := Deal(BuildDeck(), 0, 4)
	assert.ErrorIs(t, err, ErrInvalidDeal)
	_, _, err = Deal(BuildDeck(), 2, 0)
	assert.ErrorIs(t, err, ErrInvalidDeal)
}

func TestMostFrequentTieBreak(t *testing.T) {
	r, ok := NewHand(King, Queen).MostFrequent()
	require.True(t, ok)
	assert.Equal(t, Queen, r, "ties go to the earlier rank")

	r, ok = NewHand(King, King, Jack, Jack, Ace).MostFrequent()
	require.True(t, ok)
	assert.Equal(t, Jack, r)

	r, ok = NewHand(Ace, King, King, King).MostFrequent()
	require.True(t, ok)
	assert.Equal(t, King, r)

	_, ok = NewHand().MostFrequent()
	assert.False(t, ok)
}

func TestHandRemove(t *testing.T) {
	h := NewHand(Queen, Queen, Ace)
	assert.True(t, h.Remove(Queen))
	assert.Equal(t, 1, h.Count(Queen))
	assert.False(t, h.Remove(King))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []Card{Ace, Queen}, h.Cards())
	assert.Equal(t, "[Ace, Queen]", h.String())
}

func TestHandSkipsInvalidRanks(t *testing.T) {
	h := NewHand(Queen)
	assert.NotPanics(t, func() { h.Add(Rank(7), Jack) })
	assert.Equal(t, []Card{Jack, Queen}, h.Cards())
	assert.False(t, h.Remove(Rank(7)))
}

func TestParseRank(t *testing.T) {
	cases := map[string]Rank{
		"Ace":    Ace,
		"queen":  Queen,
		" KING ": King,
		"j":      Jack,
		"Q":      Queen,
	}
	for in, want := range cases {
		got, err := ParseRank(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "ten", "x", "queens"} {
		_, err := ParseRank(bad)
		assert.ErrorIs(t, err, ErrInvalidRank, bad)
	}
}

func TestRankJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Rank{"declared": Queen})
	require.NoError(t, err)
	assert.JSONEq(t, `{"declared":"Queen"}`, string(data))

	var out struct{ Declared Rank }
	require.NoError(t, json.Unmarshal([]byte(`{"Declared":"king"}`), &out))
	assert.Equal(t, King, out.Declared)
}
