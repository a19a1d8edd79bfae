// internal/game/human.go
package game

import (
	"context"
	"fmt"
	"strings"
)

// Prompter is the request/response boundary to a human. Each call blocks until
// the human answers and returns the raw text. Invalid is called with the reason
// an answer was rejected, just before the question is asked again.
type Prompter interface {
	PromptRank(ctx context.Context, hand *Hand) (string, error)
	PromptCardOrPass(ctx context.Context, hand *Hand, declared Rank) (string, error)
	PromptChallenge(ctx context.Context, declared Rank, view ChallengeView) (string, error)
	Invalid(err error)
}

// HumanDelegate forwards every decision to a Prompter and validates the answers.
// Invalid answers are re-asked in a loop; only a Prompter error (EOF, abort,
// context cancel) ends it.
type HumanDelegate struct {
	prompter Prompter
	// MaxAttempts bounds the re-prompt loop; zero means ask until a valid answer arrives.
	MaxAttempts int
}

// NewHumanDelegate binds a human policy to p.
func NewHumanDelegate(p Prompter) *HumanDelegate {
	return &HumanDelegate{prompter: p}
}

func (h *HumanDelegate) Kind() PolicyKind { return KindHuman }

// DeclareRank asks the human for the starting rank of a round they lead.
func (h *HumanDelegate) DeclareRank(ctx context.Context, hand *Hand) (Rank, error) {
	var out Rank
	err := h.ask(func() error {
		answer, err := h.prompter.PromptRank(ctx, hand)
		if err != nil {
			return promptFailure{err}
		}
		out, err = ParseRank(answer)
		return err
	})
	return out, err
}

// ChoosePlay asks for a card to place as declared, or "pass".
func (h *HumanDelegate) ChoosePlay(ctx context.Context, hand *Hand, declared Rank) (Play, error) {
	if hand.Empty() {
		return Play{}, ErrEmptyHand
	}
	var out Play
	err := h.ask(func() error {
		answer, err := h.prompter.PromptCardOrPass(ctx, hand, declared)
		if err != nil {
			return promptFailure{err}
		}
		if strings.EqualFold(strings.TrimSpace(answer), "pass") {
			out = PassPlay
			return nil
		}
		card, err := ParseRank(answer)
		if err != nil {
			return err
		}
		if !hand.Has(card) {
			return fmt.Errorf("%w: %s", ErrInvalidCard, card)
		}
		out, err = takeCard(hand, card, declared)
		return err
	})
	return out, err
}

// DecideChallenge maps a yes/no answer to a challenge decision.
func (h *HumanDelegate) DecideChallenge(ctx context.Context, declared Rank, view ChallengeView) (bool, error) {
	var out bool
	err := h.ask(func() error {
		answer, err := h.prompter.PromptChallenge(ctx, declared, view)
		if err != nil {
			return promptFailure{err}
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			out = true
		case "n", "no":
			out = false
		default:
			return fmt.Errorf("answer yes or no, got %q", answer)
		}
		return nil
	})
	return out, err
}

// promptFailure marks errors from the Prompter itself, which are not retried.
type promptFailure struct{ err error }

func (p promptFailure) Error() string { return p.err.Error() }
func (p promptFailure) Unwrap() error { return p.err }

func (h *HumanDelegate) ask(attempt func() error) error {
	for n := 1; ; n++ {
		err := attempt()
		if err == nil {
			return nil
		}
		if pf, ok := err.(promptFailure); ok {
			return fmt.Errorf("human input: %w", pf.err)
		}
		if h.MaxAttempts > 0 && n >= h.MaxAttempts {
			return fmt.Errorf("human input: gave up after %d invalid answers: %w", n, err)
		}
		h.prompter.Invalid(err)
	}
}
