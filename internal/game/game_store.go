package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/models"
)

// GameStore keeps games and the results of finished ones, keyed by game ID.
type GameStore struct {
	mu      sync.Mutex
	games   map[uuid.UUID]*BluffGame
	results map[uuid.UUID]models.GameResult
	order   []uuid.UUID
}

func NewGameStore() *GameStore {
	return &GameStore{
		games:   make(map[uuid.UUID]*BluffGame),
		results: make(map[uuid.UUID]models.GameResult),
	}
}

func (s *GameStore) AddGame(game *BluffGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*BluffGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// AddResult records a finished game and drops the live game it came from.
func (s *GameStore) AddResult(res models.GameResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.results[res.GameID]; !seen {
		s.order = append(s.order, res.GameID)
	}
	s.results[res.GameID] = res
	delete(s.games, res.GameID)
}

func (s *GameStore) GetResult(id uuid.UUID) (models.GameResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[id]
	return res, ok
}

// Results returns every stored result in the order they finished.
func (s *GameStore) Results() []models.GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GameResult, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}
