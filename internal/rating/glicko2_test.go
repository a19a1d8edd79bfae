package rating

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRatings1v1(t *testing.T) {
	winner := NewCompetitor("first-order")
	loser := NewCompetitor("zero-order")

	updated := FinalizeRatings([]Competitor{winner, loser}, []int{0, 6})
	require.Len(t, updated, 2)
	if updated[0].Elo <= 1500 {
		t.Errorf("winner's rating should have gone up, got %f", updated[0].Elo)
	}
	if updated[1].Elo >= 1500 {
		t.Errorf("loser's rating should have gone down, got %f", updated[1].Elo)
	}
	assert.Less(t, updated[0].RD, DefaultPhi, "deviation shrinks after a game")
}

func TestFinalizeRatingsTiesShareScore(t *testing.T) {
	comps := []Competitor{NewCompetitor("a"), NewCompetitor("b"), NewCompetitor("c")}
	updated := FinalizeRatings(comps, []int{0, 4, 4})
	assert.Greater(t, updated[0].Elo, 1500.0)
	assert.InDelta(t, updated[1].Elo, updated[2].Elo, 1e-9)
}

func TestTableRecordAveragesSharedKinds(t *testing.T) {
	table := NewTable()
	res := models.GameResult{
		Participants: []models.Participant{
			{ID: uuid.New(), Kind: "first-order", CardsLeft: 0},
			{ID: uuid.New(), Kind: "zero-order", CardsLeft: 3},
			{ID: uuid.New(), Kind: "zero-order", CardsLeft: 5},
		},
	}
	table.Record(res)

	first := table.Get("first-order")
	zero := table.Get("zero-order")
	assert.Greater(t, first.Elo, zero.Elo)
	assert.Equal(t, 1, first.Games)
	assert.Equal(t, 1, zero.Games)

	all := table.All()
	require.Len(t, all, 2)
	assert.Equal(t, "first-order", all[0].Name)
}

func TestTableSkipsSelfPlay(t *testing.T) {
	table := NewTable()
	table.Record(models.GameResult{Participants: []models.Participant{
		{Kind: "zero-order", CardsLeft: 0},
		{Kind: "zero-order", CardsLeft: 8},
	}})
	assert.Empty(t, table.All())
}
