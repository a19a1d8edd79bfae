// internal/game/events.go
package game

import "github.com/google/uuid"

// GameEventType is an enum-like type for broadcasting game actions.
type GameEventType string

const (
	EventCardsDealt        GameEventType = "cards_dealt"
	EventRoundStarted      GameEventType = "round_started"
	EventCardPlayed        GameEventType = "card_played"
	EventPassed            GameEventType = "passed"
	EventChallengeDecided  GameEventType = "challenge_decided"
	EventChallengeResolved GameEventType = "challenge_resolved"
	EventAllPassed         GameEventType = "all_passed"
	EventGameWon           GameEventType = "game_won"
)

// EventUser identifies a player inside an event payload.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GameEvent holds data about an event in a consistent format for subscribers.
// Card carries the true rank of a played card; subscribers that show events to
// players must hide it until a challenge reveals it.
type GameEvent struct {
	Type     GameEventType `json:"type"`
	GameID   uuid.UUID     `json:"game_id"`
	Round    int           `json:"round"`
	User     *EventUser    `json:"user,omitempty"`
	Declared *Rank         `json:"declared,omitempty"`
	Card     *Card         `json:"card,omitempty"`

	// Payload carries event-specific fields (stack size, challenger, hand sizes, ...).
	Payload map[string]interface{} `json:"payload,omitempty"`
}

func eventUser(p *Player) *EventUser {
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

func rankPtr(r Rank) *Rank { return &r }
