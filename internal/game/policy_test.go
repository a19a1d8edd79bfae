package game

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 99)) }

func TestZeroOrderPlaysTruthfullyWhenHolding(t *testing.T) {
	z := NewZeroOrder(testRNG(1))
	hand := NewHand(Queen, King, King)

	play, err := z.ChoosePlay(context.Background(), hand, Queen)
	require.NoError(t, err)
	assert.Equal(t, Play{Card: Queen, Declared: Queen}, play)
	assert.False(t, play.Bluff())
	assert.Equal(t, []Card{King, King}, hand.Cards())
}

func TestZeroOrderBluffsWithMostFrequent(t *testing.T) {
	z := NewZeroOrder(testRNG(1))
	hand := NewHand(Ace, King, King)

	play, err := z.ChoosePlay(context.Background(), hand, Queen)
	require.NoError(t, err)
	assert.Equal(t, Play{Card: King, Declared: Queen}, play)
	assert.True(t, play.Bluff())
	assert.Equal(t, []Card{Ace, King}, hand.Cards())
	assert.Equal(t, []Play{play}, z.Memory())
}

func TestZeroOrderEmptyHand(t *testing.T) {
	z := NewZeroOrder(testRNG(1))
	_, err := z.ChoosePlay(context.Background(), NewHand(), Ace)
	assert.ErrorIs(t, err, ErrEmptyHand)
	assert.Empty(t, z.Memory())
}

func TestZeroOrderBlindChallenge(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		want := testRNG(seed).Float64() < 0.1
		got, err := NewZeroOrder(testRNG(seed)).DecideChallenge(context.Background(), Queen, ChallengeView{})
		require.NoError(t, err)
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

// The challenge heuristic reads the agent's own plays, so an agent that has
// bluffed a lot challenges everyone, and an honest one challenges nobody.
func TestZeroOrderChallengeUsesOwnMoves(t *testing.T) {
	ctx := context.Background()

	liar := NewZeroOrder(testRNG(2))
	hand := NewHand(King, King, King)
	for i := 0; i < 2; i++ {
		_, err := liar.ChoosePlay(ctx, hand, Queen)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, liar.BluffRate())
	yes, err := liar.DecideChallenge(ctx, Ace, ChallengeView{Declarer: "honest opponent"})
	require.NoError(t, err)
	assert.True(t, yes)

	honest := NewZeroOrder(testRNG(2))
	_, err = honest.ChoosePlay(ctx, NewHand(Queen), Queen)
	require.NoError(t, err)
	yes, err = honest.DecideChallenge(ctx, Ace, ChallengeView{Declarer: "serial bluffer"})
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestFirstOrderTruthfulWhenNotBluffProne(t *testing.T) {
	f := NewFirstOrder(testRNG(4))
	for i := 0; i < 50; i++ {
		hand := NewHand(Queen, King)
		play, err := f.ChoosePlay(context.Background(), hand, Queen)
		require.NoError(t, err)
		assert.Equal(t, Queen, play.Card)
	}
	assert.Less(t, f.Beliefs().Get(Queen).HasCard, 0.01, "every declaration decays the declared rank")
}

func TestFirstOrderBluffsWithoutDeclaredRank(t *testing.T) {
	f := NewFirstOrder(testRNG(4))
	hand := NewHand(King)
	play, err := f.ChoosePlay(context.Background(), hand, Queen)
	require.NoError(t, err)
	assert.Equal(t, Play{Card: King, Declared: Queen}, play)
	assert.True(t, hand.Empty())
}

func TestFirstOrderEmptyHand(t *testing.T) {
	f := NewFirstOrder(testRNG(4))
	_, err := f.ChoosePlay(context.Background(), NewHand(), Queen)
	assert.ErrorIs(t, err, ErrEmptyHand)
	assert.Equal(t, InitialHasCard, f.Beliefs().Get(Queen).HasCard, "no update without a play")
}

func TestSmartBluffPrefersUnlikelyRanks(t *testing.T) {
	f := NewFirstOrder(testRNG(5))
	f.Beliefs().UpdateOnDeclaration(Queen)
	f.Beliefs().UpdateOnDeclaration(Queen)
	require.Less(t, f.Beliefs().Get(Queen).HasCard, 0.4)
	require.Greater(t, f.Beliefs().Get(King).HasCard, 0.4)

	hand := NewHand(Queen, King, King)
	for i := 0; i < 30; i++ {
		assert.Equal(t, Queen, f.SmartBluff(hand, Ace))
	}
	assert.Equal(t, 3, hand.Len(), "SmartBluff only picks")
}

func TestSmartBluffFallsBackToWholeHand(t *testing.T) {
	f := NewFirstOrder(testRNG(6))
	hand := NewHand(Ace, King)
	seen := map[Card]bool{}
	for i := 0; i < 100; i++ {
		seen[f.SmartBluff(hand, Queen)] = true
	}
	assert.Equal(t, map[Card]bool{Ace: true, King: true}, seen)
}

func TestSmartBluffSkipsDeclaredRank(t *testing.T) {
	f := NewFirstOrder(testRNG(8))
	f.Beliefs().UpdateOnDeclaration(Queen)
	f.Beliefs().UpdateOnDeclaration(Queen)
	require.Less(t, f.Beliefs().Get(Queen).HasCard, 0.4)

	hand := NewHand(Queen, King, Ace)
	for i := 0; i < 50; i++ {
		assert.NotEqual(t, Queen, f.SmartBluff(hand, Queen), "the declared rank is never the bluff card")
	}
	assert.Equal(t, Queen, f.SmartBluff(NewHand(Queen, Queen), Queen))
}

func TestFirstOrderDiversionaryBluff(t *testing.T) {
	f := NewFirstOrder(testRNG(7))
	f.beliefs.entries[Queen].WillBluff = 0.9

	played := map[Card]int{}
	for i := 0; i < 200; i++ {
		play, err := f.ChoosePlay(context.Background(), NewHand(Queen, King), Queen)
		require.NoError(t, err)
		played[play.Card]++
	}
	assert.Greater(t, played[Queen], played[King], "truthful most of the time")
	assert.Positive(t, played[King], "sometimes plays another rank as the declared one")

	// With nothing else to play, the diversion falls back to the truth.
	for i := 0; i < 20; i++ {
		play, err := f.ChoosePlay(context.Background(), NewHand(Queen, Queen), Queen)
		require.NoError(t, err)
		assert.Equal(t, Queen, play.Card)
	}
}

func TestFirstOrderChallengeThreshold(t *testing.T) {
	ctx := context.Background()
	f := NewFirstOrder(testRNG(8))

	assert.InDelta(t, 0.4, f.BluffProbability(Queen), 1e-9)
	yes, err := f.DecideChallenge(ctx, Queen, ChallengeView{})
	require.NoError(t, err)
	assert.False(t, yes)

	f.Beliefs().UpdateOnDeclaration(Queen)
	f.Beliefs().UpdateOnDeclaration(Queen)
	assert.InDelta(t, (1-0.245)*0.8, f.BluffProbability(Queen), 1e-9)
	yes, err = f.DecideChallenge(ctx, Queen, ChallengeView{})
	require.NoError(t, err)
	assert.True(t, yes)

	yes, err = f.DecideChallenge(ctx, King, ChallengeView{})
	require.NoError(t, err)
	assert.False(t, yes, "other ranks became more likely to be held")
}

func TestParsePolicyKind(t *testing.T) {
	for in, want := range map[string]PolicyKind{
		"zero": KindZeroOrder, "Zero-Order": KindZeroOrder, "0": KindZeroOrder,
		"first": KindFirstOrder, "1": KindFirstOrder, "human": KindHuman,
	} {
		got, err := ParsePolicyKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicyKind("second-order")
	assert.Error(t, err)
}

func TestNewAgent(t *testing.T) {
	p, err := NewAgent("bot", KindFirstOrder, testRNG(1))
	require.NoError(t, err)
	assert.Equal(t, KindFirstOrder, p.Kind())
	assert.NotNil(t, p.Beliefs())

	p, err = NewAgent("bot", KindZeroOrder, testRNG(1))
	require.NoError(t, err)
	assert.Nil(t, p.Beliefs())

	_, err = NewAgent("you", KindHuman, testRNG(1))
	assert.Error(t, err)
}
