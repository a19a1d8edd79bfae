// internal/game/zero_order.go
package game

import (
	"context"
	"math/rand/v2"
)

const (
	zeroOrderBlindChallenge = 0.1 // challenge probability while memory is empty
	zeroOrderBluffThreshold = 0.4
)

// ZeroOrder is the rule-based agent: it keeps no model of its opponents.
//
// Its challenge heuristic reads a memory of the moves it made itself, not the
// moves it observed. That is kept as-is; see TestZeroOrderChallengeUsesOwnMoves.
type ZeroOrder struct {
	rng    *rand.Rand
	memory []Play
}

// NewZeroOrder builds a zero-order policy drawing randomness from rng.
func NewZeroOrder(rng *rand.Rand) *ZeroOrder {
	return &ZeroOrder{rng: rng}
}

func (z *ZeroOrder) Kind() PolicyKind { return KindZeroOrder }

// ChoosePlay plays the declared rank when held, otherwise the hand's most
// frequent rank.
func (z *ZeroOrder) ChoosePlay(_ context.Context, hand *Hand, declared Rank) (Play, error) {
	card := declared
	if !hand.Has(declared) {
		var ok bool
		if card, ok = hand.MostFrequent(); !ok {
			return Play{}, ErrEmptyHand
		}
	}
	play, err := takeCard(hand, card, declared)
	if err != nil {
		return Play{}, err
	}
	z.memory = append(z.memory, play)
	return play, nil
}

// DecideChallenge challenges blindly at a low rate until it has a history, then
// challenges whenever its recorded bluff rate exceeds the threshold.
func (z *ZeroOrder) DecideChallenge(_ context.Context, _ Rank, _ ChallengeView) (bool, error) {
	if len(z.memory) == 0 {
		return z.rng.Float64() < zeroOrderBlindChallenge, nil
	}
	return z.BluffRate() > zeroOrderBluffThreshold, nil
}

// BluffRate is the share of remembered plays whose card differed from the declaration.
func (z *ZeroOrder) BluffRate() float64 {
	if len(z.memory) == 0 {
		return 0
	}
	bluffs := 0
	for _, p := range z.memory {
		if p.Bluff() {
			bluffs++
		}
	}
	return float64(bluffs) / float64(len(z.memory))
}

// Memory returns a copy of the remembered plays.
func (z *ZeroOrder) Memory() []Play {
	out := make([]Play, len(z.memory))
	copy(out, z.memory)
	return out
}
