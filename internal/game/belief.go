// internal/game/belief.go
package game

// Belief update constants for the first-order agent.
const (
	InitialHasCard   = 0.5
	InitialWillBluff = 0.3

	DeclaredDecay  = 0.7 // HasCard multiplier for the declared rank
	OtherIncrement = 0.1 // HasCard increment for every other rank
	HasCardCeiling = 0.9
)

// BeliefEntry is what a first-order agent thinks about one rank on the opponent side.
type BeliefEntry struct {
	HasCard   float64 `json:"has_card"`   // probability the opponent holds a card of this rank
	WillBluff float64 `json:"will_bluff"` // probability the opponent bluffs when declaring it
}

// BeliefModel maps each rank to a BeliefEntry. It belongs to a single player and
// lives as long as that player does; rounds do not reset it.
//
// WillBluff is set once at construction and never recomputed.
type BeliefModel struct {
	entries [NumRanks]BeliefEntry
}

// NewBeliefModel returns a model with every rank at the uniform prior.
func NewBeliefModel() *BeliefModel {
	m := &BeliefModel{}
	for _, r := range AllRanks {
		m.entries[r] = BeliefEntry{HasCard: InitialHasCard, WillBluff: InitialWillBluff}
	}
	return m
}

// Get returns the entry for r.
func (m *BeliefModel) Get(r Rank) BeliefEntry { return m.entries[r] }

// UpdateOnDeclaration applies the decay/increment heuristic for a declaration of r:
// the declared rank becomes less likely to be held, every other rank more likely,
// capped at HasCardCeiling.
func (m *BeliefModel) UpdateOnDeclaration(declared Rank) {
	for _, r := range AllRanks {
		e := &m.entries[r]
		if r == declared {
			e.HasCard *= DeclaredDecay
			continue
		}
		e.HasCard += OtherIncrement
		if e.HasCard > HasCardCeiling {
			e.HasCard = HasCardCeiling
		}
	}
}

// Snapshot copies the model into a map keyed by rank, for events and reports.
func (m *BeliefModel) Snapshot() map[Rank]BeliefEntry {
	out := make(map[Rank]BeliefEntry, NumRanks)
	for _, r := range AllRanks {
		out[r] = m.entries[r]
	}
	return out
}
