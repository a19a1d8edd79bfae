// Package experiment runs batches of autonomous games and aggregates their results.
package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/jason-s-yu/bluff/internal/rating"
	"github.com/sirupsen/logrus"
)

// Batch describes a run of games with a fixed lineup.
type Batch struct {
	Games  int
	Lineup []game.PolicyKind
	Rules  game.HouseRules // Seed, if set, is the seed of the first game; game i uses Seed+i

	// Configure, if set, is called on each game before it runs (to subscribe
	// observers or attach a publisher).
	Configure func(g *game.BluffGame)
	// OnResult, if set, receives each finished game.
	OnResult func(res models.GameResult)
}

// Summary aggregates a batch: wins per policy kind and rounds per game.
type Summary struct {
	Games        int                 `json:"games"`
	WinsByKind   map[string]int      `json:"wins_by_kind"`
	HumanWins    map[string]int      `json:"human_wins"` // games a human won, by the kind of agent opposing them
	AgentWins    map[string]int      `json:"agent_wins"` // games an agent won against a human, by agent kind
	RoundsPlayed []int               `json:"rounds_played"`
	Ratings      []rating.Competitor `json:"ratings"`
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		WinsByKind: make(map[string]int),
		HumanWins:  make(map[string]int),
		AgentWins:  make(map[string]int),
	}
}

// Add folds one finished game into the summary.
func (s *Summary) Add(res models.GameResult) {
	s.Games++
	s.WinsByKind[res.WinnerKind]++
	s.RoundsPlayed = append(s.RoundsPlayed, res.RoundsPlayed)

	hasHuman := false
	for _, p := range res.Participants {
		if p.Kind == string(game.KindHuman) {
			hasHuman = true
		}
	}
	if hasHuman {
		if res.HumanWon {
			s.HumanWins[res.OpponentKind()]++
		} else {
			s.AgentWins[res.WinnerKind]++
		}
	}
}

// Kinds lists the kinds seen as winners, sorted.
func (s *Summary) Kinds() []string {
	kinds := make([]string, 0, len(s.WinsByKind))
	for k := range s.WinsByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// MeanRounds is the average number of rounds per game.
func (s *Summary) MeanRounds() float64 {
	if len(s.RoundsPlayed) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.RoundsPlayed {
		total += r
	}
	return float64(total) / float64(len(s.RoundsPlayed))
}

// Summarize builds a summary, ratings included, from stored results.
func Summarize(results []models.GameResult) *Summary {
	s := NewSummary()
	table := rating.NewTable()
	for _, res := range results {
		s.Add(res)
		table.Record(res)
	}
	s.Ratings = table.All()
	return s
}

// Run plays b.Games games sequentially and summarizes them. It stops at the
// first failing game or when ctx is cancelled.
func Run(ctx context.Context, b Batch, log *logrus.Logger) (*Summary, error) {
	if b.Games <= 0 {
		return nil, fmt.Errorf("batch needs a positive game count, got %d", b.Games)
	}
	if len(b.Lineup) < 2 {
		return nil, game.ErrNotEnoughPlayers
	}

	summary := NewSummary()
	table := rating.NewTable()
	for i := 0; i < b.Games; i++ {
		rules := b.Rules
		if rules.Seed != 0 {
			rules.Seed += int64(i)
		}
		g, err := game.NewAgentGame(b.Lineup, rules)
		if err != nil {
			return nil, err
		}
		if log != nil {
			g.Log = log.WithField("game_id", g.ID)
		}
		if b.Configure != nil {
			b.Configure(g)
		}
		res, err := g.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("game %d of %d: %w", i+1, b.Games, err)
		}
		summary.Add(res)
		table.Record(res)
		if b.OnResult != nil {
			b.OnResult(res)
		}
	}
	summary.Ratings = table.All()
	return summary, nil
}
