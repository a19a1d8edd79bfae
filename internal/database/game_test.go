package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutDatabase(t *testing.T) {
	if DB != nil {
		t.Skip("pool already connected")
	}
	ctx := context.Background()
	assert.ErrorIs(t, RecordGameResult(ctx, models.GameResult{}), ErrNoDatabase)
	assert.ErrorIs(t, InsertActions(ctx, nil), ErrNoDatabase)
	assert.ErrorIs(t, MarkGameAbandoned(ctx, uuid.New()), ErrNoDatabase)
	_, err := GameActions(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = WinsByKind(ctx)
	assert.ErrorIs(t, err, ErrNoDatabase)
}

// Needs a running PostgreSQL; set DATABASE_URL to run it.
func TestStoreGame(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, ConnectDB(ctx, url))
	defer Close()

	gameID := uuid.New()
	winner := uuid.New()
	require.NoError(t, InsertActions(ctx, []cache.GameActionRecord{
		{GameID: gameID, ActionIndex: 1, ActionType: "cards_dealt", ActionPayload: map[string]interface{}{"undealt": 0}},
		{GameID: gameID, ActionIndex: 2, ActorUserID: winner, ActionType: "game_won"},
	}))

	actions, err := GameActions(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "cards_dealt", actions[0].ActionType)
	assert.EqualValues(t, 0, actions[0].Payload["undealt"])

	now := time.Now()
	require.NoError(t, RecordGameResult(ctx, models.GameResult{
		GameID:       gameID,
		WinnerID:     winner,
		Winner:       "P1-first-order",
		WinnerKind:   "first-order",
		RoundsPlayed: 9,
		Seed:         5,
		StartedAt:    now.Add(-time.Second),
		FinishedAt:   now,
		Participants: []models.Participant{
			{ID: winner, Name: "P1-first-order", Kind: "first-order"},
			{ID: uuid.New(), Name: "P2-zero-order", Kind: "zero-order", CardsLeft: 6},
		},
	}))

	wins, err := WinsByKind(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, wins["first-order"], 1)
}
