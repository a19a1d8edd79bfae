package experiment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	var seen []models.GameResult
	configured := 0
	summary, err := Run(context.Background(), Batch{
		Games:     12,
		Lineup:    []game.PolicyKind{game.KindZeroOrder, game.KindFirstOrder},
		Rules:     game.HouseRules{Seed: 100},
		Configure: func(g *game.BluffGame) { configured++ },
		OnResult:  func(res models.GameResult) { seen = append(seen, res) },
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 12, summary.Games)
	assert.Equal(t, 12, configured)
	require.Len(t, seen, 12)
	assert.Len(t, summary.RoundsPlayed, 12)

	wins := 0
	for _, n := range summary.WinsByKind {
		wins += n
	}
	assert.Equal(t, 12, wins)
	for i, res := range seen {
		assert.Equal(t, int64(100+i), res.Seed, "game i is seeded with seed+i")
	}
	assert.Empty(t, summary.HumanWins)
	assert.Empty(t, summary.AgentWins)
	assert.Len(t, summary.Ratings, 2)
	assert.Positive(t, summary.MeanRounds())
}

func TestRunBatchIsReproducible(t *testing.T) {
	batch := Batch{
		Games:  5,
		Lineup: []game.PolicyKind{game.KindFirstOrder, game.KindZeroOrder, game.KindZeroOrder},
		Rules:  game.HouseRules{Seed: 9},
	}
	a, err := Run(context.Background(), batch, nil)
	require.NoError(t, err)
	b, err := Run(context.Background(), batch, nil)
	require.NoError(t, err)
	assert.Equal(t, a.WinsByKind, b.WinsByKind)
	assert.Equal(t, a.RoundsPlayed, b.RoundsPlayed)
}

func TestRunRejectsBadBatches(t *testing.T) {
	_, err := Run(context.Background(), Batch{Games: 0, Lineup: []game.PolicyKind{game.KindZeroOrder, game.KindZeroOrder}}, nil)
	assert.Error(t, err)

	_, err = Run(context.Background(), Batch{Games: 3, Lineup: []game.PolicyKind{game.KindZeroOrder}}, nil)
	assert.ErrorIs(t, err, game.ErrNotEnoughPlayers)

	_, err = Run(context.Background(), Batch{Games: 3, Lineup: []game.PolicyKind{game.KindZeroOrder, game.KindHuman}}, nil)
	assert.Error(t, err, "humans cannot sit in a batch")
}

func TestSummaryHumanVersusAgent(t *testing.T) {
	human := models.Participant{ID: uuid.New(), Kind: "human"}
	agent := models.Participant{ID: uuid.New(), Kind: "first-order"}

	s := Summarize([]models.GameResult{
		{WinnerKind: "human", HumanWon: true, RoundsPlayed: 4, Participants: []models.Participant{human, agent}},
		{WinnerKind: "first-order", RoundsPlayed: 6, Participants: []models.Participant{human, agent}},
		{WinnerKind: "first-order", RoundsPlayed: 8, Participants: []models.Participant{human, agent}},
	})
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, map[string]int{"first-order": 1}, s.HumanWins)
	assert.Equal(t, map[string]int{"first-order": 2}, s.AgentWins)
	assert.Equal(t, []string{"first-order", "human"}, s.Kinds())
	assert.InDelta(t, 6.0, s.MeanRounds(), 1e-9)
}
