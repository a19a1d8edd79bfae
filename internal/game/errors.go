// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRank is returned when input does not name one of the four ranks.
	ErrInvalidRank = errors.New("invalid rank")
	// ErrInvalidCard is returned when a human selects a card that is not in their hand.
	ErrInvalidCard = errors.New("card not in hand")
	// ErrEmptyHand is returned by a policy asked to play with no cards; the round treats it as a pass.
	ErrEmptyHand = errors.New("empty hand")
	// ErrIllegalPlay means a policy named a card its hand did not hold.
	ErrIllegalPlay = errors.New("illegal play")
	// ErrInvalidDeal is returned for non-positive player counts or hand sizes.
	ErrInvalidDeal = errors.New("invalid deal configuration")
	// ErrNotEnoughPlayers is returned when a game is built with fewer than two seats.
	ErrNotEnoughPlayers = errors.New("bluff needs at least two players")
	// ErrGameOver is returned when Run is called on a finished game.
	ErrGameOver = errors.New("game already over")
)

// InsufficientCardsError reports a deal that asks for more cards than the deck holds.
type InsufficientCardsError struct {
	Requested int
	Available int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("insufficient cards: deal needs %d, deck has %d", e.Requested, e.Available)
}
