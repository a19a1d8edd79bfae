package rating

import (
	"sort"

	"github.com/jason-s-yu/bluff/internal/models"
)

// Competitor is a rated entity. In this module competitors are policy kinds,
// so the table answers "how strong is first-order play against zero-order play".
type Competitor struct {
	Name  string  `json:"name"`
	Elo   float64 `json:"elo"`
	RD    float64 `json:"rd"`
	Sigma float64 `json:"sigma"`
	Games int     `json:"games"`
}

// NewCompetitor starts name at the default rating.
func NewCompetitor(name string) Competitor {
	return Competitor{Name: name, Elo: DefaultMu, RD: DefaultPhi, Sigma: DefaultSigma}
}

// FinalizeRatings runs a Glicko-2 update on a group of competitors based on the
// cards each was left holding (lower is better; the winner holds zero).
//
// Final card counts become a fraction from 0..1 where 1 is best rank and 0 is
// worst; tied competitors share the average fraction.
func FinalizeRatings(comps []Competitor, cardsLeft []int) []Competitor {
	if len(comps) < 2 || len(comps) != len(cardsLeft) {
		return comps
	}
	order := make([]int, len(comps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cardsLeft[order[a]] < cardsLeft[order[b]]
	})

	scores := make([]float64, len(comps))
	i := 0
	for i < len(order) {
		j := i + 1
		for j < len(order) && cardsLeft[order[j]] == cardsLeft[order[i]] {
			j++
		}
		// players i..j-1 are tied
		avgRank := float64(i+(j-1)) / 2
		fr := 1.0 - (avgRank / float64(len(order)-1))
		for k := i; k < j; k++ {
			scores[order[k]] = fr
		}
		i = j
	}
	return SingleOrMultiPlayerGlicko2(comps, scores)
}

// Table keeps one rating per policy kind across games.
type Table struct {
	ratings map[string]Competitor
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{ratings: make(map[string]Competitor)}
}

// Get returns the rating for kind, defaulting for unseen kinds.
func (t *Table) Get(kind string) Competitor {
	if c, ok := t.ratings[kind]; ok {
		return c
	}
	return NewCompetitor(kind)
}

// Record updates the table with a finished game. Seats sharing a kind are rated
// individually and their results averaged back into the kind's rating. A game
// between seats of one kind says nothing about relative strength and is skipped.
func (t *Table) Record(res models.GameResult) {
	kinds := make(map[string]bool)
	for _, p := range res.Participants {
		kinds[p.Kind] = true
	}
	if len(kinds) < 2 {
		return
	}

	comps := make([]Competitor, len(res.Participants))
	cards := make([]int, len(res.Participants))
	for i, p := range res.Participants {
		comps[i] = t.Get(p.Kind)
		cards[i] = p.CardsLeft
	}
	updated := FinalizeRatings(comps, cards)

	type acc struct {
		elo, rd, sigma float64
		n              int
	}
	sums := make(map[string]*acc)
	for _, c := range updated {
		a, ok := sums[c.Name]
		if !ok {
			a = &acc{}
			sums[c.Name] = a
		}
		a.elo += c.Elo
		a.rd += c.RD
		a.sigma += c.Sigma
		a.n++
	}
	for kind, a := range sums {
		prev := t.Get(kind)
		n := float64(a.n)
		t.ratings[kind] = Competitor{
			Name:  kind,
			Elo:   a.elo / n,
			RD:    a.rd / n,
			Sigma: a.sigma / n,
			Games: prev.Games + 1,
		}
	}
}

// All returns every rated kind, strongest first.
func (t *Table) All() []Competitor {
	out := make([]Competitor, 0, len(t.ratings))
	for _, c := range t.ratings {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elo != out[j].Elo {
			return out[i].Elo > out[j].Elo
		}
		return out[i].Name < out[j].Name
	})
	return out
}
