package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeliefModelPrior(t *testing.T) {
	m := NewBeliefModel()
	for _, r := range AllRanks {
		assert.Equal(t, BeliefEntry{HasCard: 0.5, WillBluff: 0.3}, m.Get(r))
	}
}

func TestUpdateOnDeclaration(t *testing.T) {
	m := NewBeliefModel()
	m.UpdateOnDeclaration(Queen)

	assert.InDelta(t, 0.35, m.Get(Queen).HasCard, 1e-9)
	for _, r := range []Rank{Ace, Jack, King} {
		assert.InDelta(t, 0.6, m.Get(r).HasCard, 1e-9, r.String())
	}

	for i := 0; i < 10; i++ {
		m.UpdateOnDeclaration(Queen)
	}
	assert.Equal(t, HasCardCeiling, m.Get(King).HasCard, "capped")
	assert.Less(t, m.Get(Queen).HasCard, 0.02)
}

func TestBeliefsStayInBounds(t *testing.T) {
	m := NewBeliefModel()
	rng := rand.New(rand.NewPCG(3, 3))
	for i := 0; i < 500; i++ {
		m.UpdateOnDeclaration(AllRanks[rng.IntN(NumRanks)])
		for _, r := range AllRanks {
			e := m.Get(r)
			assert.GreaterOrEqual(t, e.HasCard, 0.0)
			assert.LessOrEqual(t, e.HasCard, HasCardCeiling)
			assert.Equal(t, InitialWillBluff, e.WillBluff, "WillBluff is never recomputed")
		}
	}
	assert.Len(t, m.Snapshot(), NumRanks)
}
