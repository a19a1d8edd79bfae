// internal/game/first_order.go
package game

import (
	"context"
	"math/rand/v2"
)

const (
	firstOrderBluffProne    = 0.5 // WillBluff at or above this makes a truthful play uncertain
	firstOrderTruthfulOdds  = 0.7
	firstOrderUnlikelyHeld  = 0.4 // HasCard below this marks a rank as a safe bluff
	firstOrderCatchWeight   = 0.8
	firstOrderChallengeEdge = 0.5
)

// FirstOrder is the theory-of-mind agent. It keeps a BeliefModel about its
// opponent and consults it for both plays and challenges.
type FirstOrder struct {
	rng     *rand.Rand
	beliefs *BeliefModel
}

// NewFirstOrder builds a first-order policy with a fresh belief model.
func NewFirstOrder(rng *rand.Rand) *FirstOrder {
	return &FirstOrder{rng: rng, beliefs: NewBeliefModel()}
}

func (f *FirstOrder) Kind() PolicyKind { return KindFirstOrder }

// Beliefs exposes the agent's belief model.
func (f *FirstOrder) Beliefs() *BeliefModel { return f.beliefs }

// ChoosePlay updates beliefs for the declaration, then plays truthfully when it
// can unless the declared rank is believed bluff-prone, in which case it still
// tells the truth 70% of the time. Without the declared rank it bluffs via SmartBluff.
func (f *FirstOrder) ChoosePlay(_ context.Context, hand *Hand, declared Rank) (Play, error) {
	if hand.Empty() {
		return Play{}, ErrEmptyHand
	}
	f.beliefs.UpdateOnDeclaration(declared)

	if !hand.Has(declared) {
		return takeCard(hand, f.SmartBluff(hand, declared), declared)
	}

	p := f.beliefs.Get(declared).WillBluff
	if p >= firstOrderBluffProne && f.rng.Float64() >= firstOrderTruthfulOdds {
		if c, ok := f.diversion(hand, declared); ok {
			return takeCard(hand, c, declared)
		}
	}
	return takeCard(hand, declared, declared)
}

// SmartBluff picks the card to pass off as declared from the cards of other
// ranks. It prefers ranks the opponent is believed unlikely to hold, uniformly
// among such cards, and falls back to a uniform pick over the other cards. A
// hand holding nothing but the declared rank plays it.
func (f *FirstOrder) SmartBluff(hand *Hand, declared Rank) Card {
	var others []Card
	for _, c := range hand.Cards() {
		if c != declared {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return declared
	}
	return f.pick(others)
}

// diversion bluffs while holding the declared rank. ok is false when the hand
// has no other rank to play.
func (f *FirstOrder) diversion(hand *Hand, declared Rank) (c Card, ok bool) {
	c = f.SmartBluff(hand, declared)
	return c, c != declared
}

func (f *FirstOrder) pick(cards []Card) Card {
	var candidates []Card
	for _, c := range cards {
		if f.beliefs.Get(c).HasCard < firstOrderUnlikelyHeld {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = cards
	}
	return candidates[f.rng.IntN(len(candidates))]
}

// DecideChallenge estimates the chance the declaration is a bluff from how
// unlikely the opponent is to hold the rank, and challenges above even odds.
func (f *FirstOrder) DecideChallenge(_ context.Context, declared Rank, _ ChallengeView) (bool, error) {
	return f.BluffProbability(declared) > firstOrderChallengeEdge, nil
}

// BluffProbability is (1 - HasCard) scaled by the catch weight.
func (f *FirstOrder) BluffProbability(declared Rank) float64 {
	return (1 - f.beliefs.Get(declared).HasCard) * firstOrderCatchWeight
}
