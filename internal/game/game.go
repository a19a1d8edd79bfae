// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc handles a finished game, e.g. to store or broadcast its result.
type OnGameEndFunc func(result models.GameResult)

// ActionPublisher receives one record per game event. The Redis queue publisher
// in internal/cache satisfies it.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// BluffGame holds the entire state for a single game instance in memory.
// It is driven by one goroutine; nothing in it is safe for concurrent use.
type BluffGame struct {
	ID         uuid.UUID
	HouseRules HouseRules

	Players []*Player
	// Deck holds the cards left undealt.
	Deck []Card

	RoundsPlayed int
	Started      bool
	GameOver     bool
	Winner       *Player

	// NextRank, when set, is used as the starting rank of the next round instead
	// of asking the leader or drawing one.
	NextRank *Rank

	// OnGameEnd is invoked once when a player empties their hand.
	OnGameEnd OnGameEndFunc

	// Publisher, if set, receives every event as an action record.
	Publisher ActionPublisher

	Log *logrus.Entry

	subscribers []func(ev GameEvent)
	round       *Round
	leader      int
	actionIndex int
	rng         *rand.Rand
	startedAt   time.Time
}

// NewBluffGame seats players and validates the deal. It fails before any player
// receives cards when the rules ask for more cards than the deck holds.
func NewBluffGame(players []*Player, rules HouseRules) (*BluffGame, error) {
	if len(players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	handSize := rules.handSizeFor(len(players))
	if handSize <= 0 {
		return nil, fmt.Errorf("deal %d players: %w", len(players), ErrInvalidDeal)
	}
	if !dealFits(DeckSize, len(players), handSize) {
		return nil, &InsufficientCardsError{Requested: dealSize(len(players), handSize), Available: DeckSize}
	}
	if rules.Seed == 0 {
		rules.Seed = rand.Int64N(1<<62) + 1
	}

	id := uuid.New()
	g := &BluffGame{
		ID:         id,
		HouseRules: rules,
		Players:    players,
		Deck:       BuildDeck(),
		rng:        rand.New(rand.NewPCG(uint64(rules.Seed), 0)),
		Log:        logrus.StandardLogger().WithField("game_id", id),
	}
	return g, nil
}

// AgentRNG derives the random source for the agent in seat from a game seed, so a
// seeded game is reproducible end to end.
func AgentRNG(seed int64, seat int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seat)+1))
}

// NewAgentGame seats one autonomous agent per kind, named after its seat and kind.
func NewAgentGame(kinds []PolicyKind, rules HouseRules) (*BluffGame, error) {
	if rules.Seed == 0 {
		rules.Seed = rand.Int64N(1<<62) + 1
	}
	players := make([]*Player, len(kinds))
	for i, k := range kinds {
		p, err := NewAgent(fmt.Sprintf("P%d-%s", i+1, k), k, AgentRNG(rules.Seed, i))
		if err != nil {
			return nil, err
		}
		players[i] = p
	}
	return NewBluffGame(players, rules)
}

// Subscribe registers fn to receive every event. Subscribers are called in
// registration order, synchronously, before the game moves on.
func (g *BluffGame) Subscribe(fn func(ev GameEvent)) {
	g.subscribers = append(g.subscribers, fn)
}

// Start shuffles the deck and deals.
func (g *BluffGame) Start() error {
	if g.Started {
		return nil
	}
	deck := Shuffle(g.rng, g.Deck)
	hands, remaining, err := Deal(deck, len(g.Players), g.HouseRules.handSizeFor(len(g.Players)))
	if err != nil {
		return err
	}
	for i, p := range g.Players {
		p.Receive(hands[i].Cards()...)
	}
	g.Deck = remaining
	g.Started = true
	g.startedAt = time.Now()

	sizes := make(map[string]interface{}, len(g.Players))
	for _, p := range g.Players {
		sizes[p.Name] = p.Hand.Len()
	}
	g.emit(GameEvent{Type: EventCardsDealt, Payload: map[string]interface{}{
		"hand_sizes": sizes,
		"undealt":    len(g.Deck),
	}})
	g.Log.Infof("dealt %d players, %d cards undealt", len(g.Players), len(g.Deck))
	return nil
}

// Run deals if needed and plays rounds until one player's hand is empty.
// ctx is checked between turns; cancelling it abandons the game.
func (g *BluffGame) Run(ctx context.Context) (models.GameResult, error) {
	if g.GameOver {
		return models.GameResult{}, ErrGameOver
	}
	if err := g.Start(); err != nil {
		return models.GameResult{}, err
	}
	for !g.GameOver {
		if err := ctx.Err(); err != nil {
			return models.GameResult{}, fmt.Errorf("game %s abandoned after %d rounds: %w", g.ID, g.RoundsPlayed, err)
		}
		if _, err := g.PlayRound(ctx); err != nil {
			return models.GameResult{}, err
		}
	}
	return g.Result(), nil
}

// Round returns the round in progress, or the last one played.
func (g *BluffGame) Round() *Round { return g.round }

// CardsAccounted sums every hand, the current stack and the deck. It is DeckSize
// in every reachable state.
func (g *BluffGame) CardsAccounted() int {
	n := len(g.Deck)
	for _, p := range g.Players {
		n += p.Hand.Len()
	}
	if g.round != nil {
		n += len(g.round.Stack)
	}
	return n
}

// Result reports the finished game for the experiment/reporting layer.
func (g *BluffGame) Result() models.GameResult {
	res := models.GameResult{
		GameID:       g.ID,
		RoundsPlayed: g.RoundsPlayed,
		Seed:         g.HouseRules.Seed,
		StartedAt:    g.startedAt,
		FinishedAt:   time.Now(),
	}
	for _, p := range g.Players {
		res.Participants = append(res.Participants, models.Participant{
			ID:            p.ID,
			Name:          p.Name,
			Kind:          string(p.Kind()),
			CardsLeft:     p.Hand.Len(),
			ChallengesWon: p.ChallengesWon,
		})
	}
	if g.Winner != nil {
		res.WinnerID = g.Winner.ID
		res.Winner = g.Winner.Name
		res.WinnerKind = string(g.Winner.Kind())
		res.HumanWon = g.Winner.Kind() == KindHuman
	}
	return res
}

// checkWinner ends the game when some player holds no cards. Seats are checked
// in order, so ties go to the lower seat.
func (g *BluffGame) checkWinner() *Player {
	if g.GameOver {
		return g.Winner
	}
	for _, p := range g.Players {
		if p.Hand.Empty() {
			g.finish(p)
			return p
		}
	}
	return nil
}

func (g *BluffGame) finish(winner *Player) {
	g.GameOver = true
	g.Winner = winner
	g.emit(GameEvent{
		Type:    EventGameWon,
		User:    eventUser(winner),
		Payload: map[string]interface{}{"rounds_played": g.RoundsPlayed, "kind": string(winner.Kind())},
	})
	g.Log.WithFields(logrus.Fields{
		"winner": winner.Name,
		"kind":   winner.Kind(),
		"rounds": g.RoundsPlayed,
	}).Info("game won")
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.Result())
	}
}

// emit stamps ev with the game and round, hands it to subscribers, then logs it
// as an action record.
func (g *BluffGame) emit(ev GameEvent) {
	ev.GameID = g.ID
	ev.Round = g.RoundsPlayed
	for _, fn := range g.subscribers {
		fn(ev)
	}
	g.logAction(ev)
}

// logAction publishes ev to the action queue when a publisher is configured.
// Failures are logged and never affect play.
func (g *BluffGame) logAction(ev GameEvent) {
	g.actionIndex++
	if g.Publisher == nil {
		return
	}
	payload := make(map[string]interface{}, len(ev.Payload)+2)
	for k, v := range ev.Payload {
		payload[k] = v
	}
	if ev.Declared != nil {
		payload["declared"] = ev.Declared.String()
	}
	if ev.Card != nil {
		payload["card"] = ev.Card.String()
	}
	actor := uuid.Nil
	if ev.User != nil {
		actor = ev.User.ID
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actor,
		ActionType:    string(ev.Type),
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.Publisher.PublishGameAction(ctx, record); err != nil {
		g.Log.Warnf("publishing action %d (%s): %v", record.ActionIndex, ev.Type, err)
	}
}
