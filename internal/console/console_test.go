package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/experiment"
	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func ptr(r game.Rank) *game.Rank { return &r }

func TestNarrateHidesOpponentCards(t *testing.T) {
	me := uuid.New()
	var buf bytes.Buffer

	narrate(&buf, me, game.GameEvent{
		Type:     game.EventCardPlayed,
		User:     &game.EventUser{ID: uuid.New(), Name: "P2-first-order"},
		Declared: ptr(game.Queen),
		Card:     ptr(game.King),
	})
	assert.Equal(t, "P2-first-order plays Queen.\n", buf.String())

	buf.Reset()
	narrate(&buf, me, game.GameEvent{
		Type:     game.EventCardPlayed,
		User:     &game.EventUser{ID: me, Name: "You"},
		Declared: ptr(game.Queen),
		Card:     ptr(game.King),
	})
	assert.Equal(t, "you play your King as Queen.\n", buf.String())
}

func TestNarrateRevealsOnChallenge(t *testing.T) {
	var buf bytes.Buffer
	narrate(&buf, uuid.Nil, game.GameEvent{
		Type:     game.EventChallengeResolved,
		User:     &game.EventUser{Name: "You"},
		Declared: ptr(game.Queen),
		Card:     ptr(game.King),
		Payload: map[string]interface{}{
			"declarer":      "P2",
			"bluff":         true,
			"loser":         "P2",
			"cards_awarded": 3,
		},
	})
	assert.Contains(t, buf.String(), "the challenge succeeds! P2 played King.")
	assert.Contains(t, buf.String(), "P2 receives 3 cards.")
}

func TestNarrateAllPassedWithCarriedStack(t *testing.T) {
	var buf bytes.Buffer
	narrate(&buf, uuid.Nil, game.GameEvent{
		Type:     game.EventAllPassed,
		Declared: ptr(game.Jack),
		Payload:  map[string]interface{}{"carried": 3},
	})
	assert.Equal(t, "all players passed. starting a new round.\nthe 3 cards on the stack stay in play.\n", buf.String())
}

func TestRenderSummary(t *testing.T) {
	s := experiment.Summarize([]models.GameResult{
		{WinnerKind: "first-order", RoundsPlayed: 5, Participants: []models.Participant{
			{Kind: "first-order", CardsLeft: 0}, {Kind: "zero-order", CardsLeft: 4},
		}},
		{WinnerKind: "zero-order", RoundsPlayed: 7, Participants: []models.Participant{
			{Kind: "first-order", CardsLeft: 2}, {Kind: "zero-order", CardsLeft: 0},
		}},
	})

	var buf bytes.Buffer
	RenderSummary(&buf, s)
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "wins over 2 games")
	assert.Contains(t, out, "first-order")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "6.00")
	assert.Contains(t, out, "glicko-2")
	assert.NotContains(t, out, "human vs agent")
}
