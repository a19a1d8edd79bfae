// internal/handlers/game_server.go
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultGameTimeout bounds a single autonomous game run by the server.
const DefaultGameTimeout = 30 * time.Second

// PlayerSpec seats one autonomous agent in a requested game.
type PlayerSpec struct {
	Name   string `json:"name"`
	Policy string `json:"policy"`
}

// CreateGameRequest is the body of POST /games.
type CreateGameRequest struct {
	Players []PlayerSpec           `json:"players"`
	Rules   map[string]interface{} `json:"rules,omitempty"`
}

// GameServer holds the game store and the sinks every game it runs is wired to.
type GameServer struct {
	GameStore *game.GameStore
	Logger    *logrus.Logger

	// Publisher, if set, receives every game's action records.
	Publisher game.ActionPublisher
	// Recorder, if set, persists finished games (e.g. database.RecordGameResult).
	Recorder func(ctx context.Context, res models.GameResult) error

	// Rules are the defaults a request's rules are applied over.
	Rules   game.HouseRules
	Timeout time.Duration
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		GameStore: game.NewGameStore(),
		Logger:    logger,
		Timeout:   DefaultGameTimeout,
	}
}

// NewGame validates req and seats its agents. Humans cannot be seated remotely.
func (gs *GameServer) NewGame(req CreateGameRequest) (*game.BluffGame, error) {
	if len(req.Players) < 2 {
		return nil, game.ErrNotEnoughPlayers
	}
	rules, err := game.ParseRules(req.Rules, gs.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if rules.Seed == 0 {
		rules.Seed = time.Now().UnixNano()
	}

	players := make([]*game.Player, len(req.Players))
	for i, ps := range req.Players {
		kind, err := game.ParsePolicyKind(ps.Policy)
		if err != nil {
			return nil, err
		}
		if kind == game.KindHuman {
			return nil, fmt.Errorf("seat %d: human players are only supported on the console", i+1)
		}
		name := strings.TrimSpace(ps.Name)
		if name == "" {
			name = fmt.Sprintf("P%d-%s", i+1, kind)
		}
		p, err := game.NewAgent(name, kind, game.AgentRNG(rules.Seed, i))
		if err != nil {
			return nil, err
		}
		players[i] = p
	}

	g, err := game.NewBluffGame(players, rules)
	if err != nil {
		return nil, err
	}
	g.Publisher = gs.Publisher
	if gs.Logger != nil {
		g.Log = gs.Logger.WithField("game_id", g.ID)
	}
	g.OnGameEnd = func(res models.GameResult) {
		gs.GameStore.AddResult(res)
		if gs.Recorder == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gs.Recorder(ctx, res); err != nil {
			g.Log.Warnf("recording result: %v", err)
		}
	}
	gs.GameStore.AddGame(g)
	return g, nil
}

// RunGame plays g to completion under the server's timeout.
func (gs *GameServer) RunGame(ctx context.Context, g *game.BluffGame) (models.GameResult, error) {
	timeout := gs.Timeout
	if timeout <= 0 {
		timeout = DefaultGameTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := g.Run(ctx)
	if err != nil {
		gs.GameStore.DeleteGame(g.ID)
		return models.GameResult{}, err
	}
	return res, nil
}
