// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/database"
	"github.com/jason-s-yu/bluff/internal/experiment"
)

// CreateGameHandler runs an autonomous game to completion and returns its result.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad game request payload", http.StatusBadRequest)
			return
		}

		g, err := gs.NewGame(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := gs.RunGame(r.Context(), g)
		if err != nil {
			gs.Logger.Warnf("game %s failed: %v", g.ID, err)
			http.Error(w, "game did not finish", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GetGameHandler returns the stored result of a finished game.
func GetGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(w, r)
		if !ok {
			return
		}
		res, found := gs.GameStore.GetResult(id)
		if !found {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GameActionsHandler returns the action log the historian stored for a game.
func GameActionsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(w, r)
		if !ok {
			return
		}
		actions, err := database.GameActions(r.Context(), id)
		if errors.Is(err, database.ErrNoDatabase) {
			http.Error(w, "action history is not available", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			gs.Logger.Errorf("loading actions of game %s: %v", id, err)
			http.Error(w, "could not load actions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"game_id": id,
			"actions": actions,
		})
	}
}

// StatsHandler summarizes every game the server has finished.
func StatsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, experiment.Summarize(gs.GameStore.Results()))
	}
}

func gameIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
