package console

import (
	"fmt"
	"io"
	"sort"

	"github.com/jason-s-yu/bluff/internal/experiment"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary writes the batch report: wins per kind, human-vs-agent results
// when humans played, rounds per game, and per-kind ratings.
func RenderSummary(w io.Writer, s *experiment.Summary) {
	wins := table.NewWriter()
	wins.SetOutputMirror(w)
	wins.SetTitle(fmt.Sprintf("Wins over %d games", s.Games))
	wins.AppendHeader(table.Row{"Policy", "Wins", "Share"})
	for _, kind := range s.Kinds() {
		n := s.WinsByKind[kind]
		wins.AppendRow(table.Row{kind, n, fmt.Sprintf("%.1f%%", 100*float64(n)/float64(max(s.Games, 1)))})
	}
	styleTable(wins)
	wins.Render()

	if len(s.HumanWins)+len(s.AgentWins) > 0 {
		hv := table.NewWriter()
		hv.SetOutputMirror(w)
		hv.SetTitle("Human vs Agent")
		hv.AppendHeader(table.Row{"Agent", "Human wins", "Agent wins"})
		for _, kind := range unionKeys(s.HumanWins, s.AgentWins) {
			hv.AppendRow(table.Row{kind, s.HumanWins[kind], s.AgentWins[kind]})
		}
		styleTable(hv)
		hv.Render()
	}

	rounds := table.NewWriter()
	rounds.SetOutputMirror(w)
	rounds.SetTitle("Rounds per game")
	rounds.AppendHeader(table.Row{"Game", "Rounds"})
	for i, r := range s.RoundsPlayed {
		rounds.AppendRow(table.Row{i + 1, r})
	}
	rounds.AppendFooter(table.Row{"Mean", fmt.Sprintf("%.2f", s.MeanRounds())})
	styleTable(rounds)
	rounds.Render()

	if len(s.Ratings) > 0 {
		rt := table.NewWriter()
		rt.SetOutputMirror(w)
		rt.SetTitle("Ratings (Glicko-2)")
		rt.AppendHeader(table.Row{"Policy", "Rating", "RD", "Games"})
		for _, c := range s.Ratings {
			rt.AppendRow(table.Row{c.Name, fmt.Sprintf("%.0f", c.Elo), fmt.Sprintf("%.0f", c.RD), c.Games})
		}
		styleTable(rt)
		rt.Render()
	}
}

func styleTable(t table.Writer) {
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
}

func unionKeys(a, b map[string]int) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for _, m := range []map[string]int{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
