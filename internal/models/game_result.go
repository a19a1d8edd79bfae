// internal/models/game_result.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one seat of a finished game.
type Participant struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"` // policy kind: zero-order, first-order or human
	CardsLeft     int       `json:"cards_left"`
	ChallengesWon int       `json:"challenges_won"`
}

// GameResult is what a finished game exposes to reporting and storage.
type GameResult struct {
	GameID       uuid.UUID     `json:"game_id"`
	WinnerID     uuid.UUID     `json:"winner_id"`
	Winner       string        `json:"winner"`
	WinnerKind   string        `json:"winner_kind"`
	HumanWon     bool          `json:"human_won"`
	RoundsPlayed int           `json:"rounds_played"`
	Seed         int64         `json:"seed"`
	Participants []Participant `json:"participants"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// OpponentKind returns the kind of the first non-human participant, which labels
// a human-vs-agent game by the agent it was played against.
func (r GameResult) OpponentKind() string {
	for _, p := range r.Participants {
		if p.Kind != "human" {
			return p.Kind
		}
	}
	return ""
}
