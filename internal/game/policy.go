// internal/game/policy.go
package game

import (
	"context"
	"fmt"
	"strings"
)

// PolicyKind names one of the closed set of decision policies.
type PolicyKind string

const (
	KindZeroOrder  PolicyKind = "zero-order"
	KindFirstOrder PolicyKind = "first-order"
	KindHuman      PolicyKind = "human"
)

// ParsePolicyKind accepts the canonical names plus the short forms used on the command line.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero", "zero-order", "0":
		return KindZeroOrder, nil
	case "first", "first-order", "1":
		return KindFirstOrder, nil
	case "human":
		return KindHuman, nil
	}
	return "", fmt.Errorf("unknown policy %q", s)
}

// Play is the outcome of ChoosePlay: either a pass or a card with its declared rank.
type Play struct {
	Pass     bool
	Card     Card
	Declared Rank
}

// PassPlay is the zero-cost pass signal.
var PassPlay = Play{Pass: true}

// Bluff reports whether the played card differs from its declaration.
func (p Play) Bluff() bool { return !p.Pass && p.Card != p.Declared }

// ChallengeView is what an observer sees when deciding whether to challenge.
type ChallengeView struct {
	Declarer  string // name of the player who just played
	StackSize int    // cards on the stack, the just-played card included
	Hand      *Hand  // observer's own hand, read-only
}

// Policy decides plays and challenges for a player. Implementations own any
// memory or beliefs they keep; nothing is shared between players.
type Policy interface {
	Kind() PolicyKind
	// ChoosePlay removes the chosen card from hand and returns it with the declared
	// rank, or returns PassPlay. ErrEmptyHand means the hand had nothing to play.
	ChoosePlay(ctx context.Context, hand *Hand, declared Rank) (Play, error)
	// DecideChallenge reports whether to challenge a declaration of rank declared.
	DecideChallenge(ctx context.Context, declared Rank, view ChallengeView) (bool, error)
}

// RankDeclarer is implemented by policies that pick a round's starting rank
// themselves instead of leaving it to the game's random draw.
type RankDeclarer interface {
	DeclareRank(ctx context.Context, hand *Hand) (Rank, error)
}

// takeCard removes c from hand and builds the play, guarding against a policy
// that names a card it does not hold.
func takeCard(hand *Hand, c Card, declared Rank) (Play, error) {
	if !hand.Remove(c) {
		return Play{}, fmt.Errorf("%w: %s not in hand %s", ErrIllegalPlay, c, hand)
	}
	return Play{Card: c, Declared: declared}, nil
}
