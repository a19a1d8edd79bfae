// internal/game/player.go
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Player is one seat at the table: a hand, and the policy bound to it at construction.
type Player struct {
	ID     uuid.UUID
	Name   string
	Hand   *Hand
	Policy Policy

	// ChallengesWon counts rounds this player won by a resolved challenge,
	// either as a successful challenger or as a truthful declarer.
	ChallengesWon int
}

// NewPlayer binds policy to a new player with an empty hand.
func NewPlayer(name string, policy Policy) *Player {
	return &Player{
		ID:     uuid.New(),
		Name:   name,
		Hand:   NewHand(),
		Policy: policy,
	}
}

// NewAgent builds an autonomous player of the given kind.
func NewAgent(name string, kind PolicyKind, rng *rand.Rand) (*Player, error) {
	switch kind {
	case KindZeroOrder:
		return NewPlayer(name, NewZeroOrder(rng)), nil
	case KindFirstOrder:
		return NewPlayer(name, NewFirstOrder(rng)), nil
	case KindHuman:
		return nil, fmt.Errorf("human players need a prompter; use NewPlayer with NewHumanDelegate")
	}
	return nil, fmt.Errorf("unknown policy kind %q", kind)
}

// Kind is the player's policy kind.
func (p *Player) Kind() PolicyKind { return p.Policy.Kind() }

// Active reports whether the player still holds cards.
func (p *Player) Active() bool { return !p.Hand.Empty() }

// Receive adds cards to the player's hand.
func (p *Player) Receive(cards ...Card) { p.Hand.Add(cards...) }

// Beliefs returns the player's belief model, or nil for policies that keep none.
func (p *Player) Beliefs() *BeliefModel {
	if b, ok := p.Policy.(interface{ Beliefs() *BeliefModel }); ok {
		return b.Beliefs()
	}
	return nil
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Policy.Kind())
}
