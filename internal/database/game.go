// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/jason-s-yu/bluff/internal/models"
)

// ErrNoDatabase is returned when storage is used without a connected pool.
var ErrNoDatabase = errors.New("database not connected")

// RecordGameResult persists the final outcome of a game and one row per participant.
func RecordGameResult(ctx context.Context, res models.GameResult) error {
	if DB == nil {
		return ErrNoDatabase
	}
	err := beginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, seed, rounds_played, winner_id, winner_kind, human_won, start_time, end_time)
			VALUES ($1, 'completed', $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET status = 'completed', seed = $2, rounds_played = $3, winner_id = $4,
			    winner_kind = $5, human_won = $6, start_time = $7, end_time = $8
		`
		if _, e := tx.Exec(ctx, upsertGame, res.GameID, res.Seed, res.RoundsPlayed, res.WinnerID,
			res.WinnerKind, res.HumanWon, res.StartedAt, res.FinishedAt); e != nil {
			return e
		}

		for _, p := range res.Participants {
			q := `
				INSERT INTO game_results (game_id, player_id, player_name, policy_kind, cards_left, challenges_won, did_win)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET cards_left = $5, challenges_won = $6, did_win = $7
			`
			if _, e := tx.Exec(ctx, q, res.GameID, p.ID, p.Name, p.Kind, p.CardsLeft, p.ChallengesWon, p.ID == res.WinnerID); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// InsertActions writes a batch of action records in one transaction. A game row
// is created on first sight and marked completed by its game_won action.
func InsertActions(ctx context.Context, records []cache.GameActionRecord) error {
	if DB == nil {
		return ErrNoDatabase
	}
	return beginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertGameActionTx: %w", err)
			}
		}
		return nil
	})
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (game_id, action_index, actor_user_id, action_type, action_payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err = tx.Exec(ctx, actionInsertQ, rec.GameID, rec.ActionIndex, rec.ActorUserID, rec.ActionType, jsonPayload); err != nil {
		return err
	}

	if rec.ActionType == "game_won" {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err = tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

// GameActions returns the stored actions of a game in order.
func GameActions(ctx context.Context, gameID uuid.UUID) ([]models.GameAction, error) {
	if DB == nil {
		return nil, ErrNoDatabase
	}
	rows, err := DB.Query(ctx, `
		SELECT action_type, action_payload
		FROM game_actions
		WHERE game_id = $1
		ORDER BY action_index
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []models.GameAction
	for rows.Next() {
		var a models.GameAction
		var raw []byte
		if err := rows.Scan(&a.ActionType, &raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a.Payload); err != nil {
				return nil, fmt.Errorf("decoding payload of %s: %w", a.ActionType, err)
			}
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// WinsByKind counts completed games per winning policy kind.
func WinsByKind(ctx context.Context) (map[string]int, error) {
	if DB == nil {
		return nil, ErrNoDatabase
	}
	rows, err := DB.Query(ctx, `
		SELECT winner_kind, COUNT(*)
		FROM games
		WHERE status = 'completed' AND winner_kind IS NOT NULL
		GROUP BY winner_kind
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}

// MarkGameAbandoned marks a game 'abandoned' if it is still 'in_progress'.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	if DB == nil {
		return ErrNoDatabase
	}
	return beginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
}

// Store exposes the action-log functions as a value, for consumers such as the
// historian that take their storage as an interface.
type Store struct{}

func (Store) InsertActions(ctx context.Context, records []cache.GameActionRecord) error {
	return InsertActions(ctx, records)
}

func (Store) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	return MarkGameAbandoned(ctx, gameID)
}
