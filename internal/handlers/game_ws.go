// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/middleware"
	"github.com/sirupsen/logrus"
)

// GameWSHandler upgrades the connection and streams the events of a freshly
// simulated game to the client as they happen.
//
// The lineup comes from the query: /games/ws?players=zero-order,first-order&seed=7&handSize=4.
// Played cards stay hidden until a challenge reveals them.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := wsGameRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			logger.Warnf("Client connected with invalid subprotocol: %q", c.Subprotocol())
			c.Close(BadSubprotocolError, "Client must use the 'game' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		g, err := gs.NewGame(req)
		if err != nil {
			c.Close(InvalidGameRequestError, err.Error())
			return
		}

		// Clients only listen; CloseRead cancels ctx when they go away.
		ctx := c.CloseRead(r.Context())

		g.Subscribe(func(ev game.GameEvent) {
			sendWsMessage(ctx, c, spectatorEvent(ev))
		})
		res, err := gs.RunGame(ctx, g)
		if err != nil {
			middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
			c.Close(GameAbortedError, "game did not finish")
			return
		}
		sendWsMessage(ctx, c, map[string]interface{}{
			"type":   "game_results",
			"result": res,
		})
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "game over")
	}
}

// wsGameRequest builds a game request from the upgrade URL's query.
func wsGameRequest(r *http.Request) (CreateGameRequest, error) {
	q := r.URL.Query()
	lineup := q.Get("players")
	if lineup == "" {
		lineup = "zero-order,first-order"
	}
	var req CreateGameRequest
	for _, p := range strings.Split(lineup, ",") {
		req.Players = append(req.Players, PlayerSpec{Policy: p})
	}
	req.Rules = map[string]interface{}{}
	for _, key := range []string{"seed", "handSize"} {
		if s := q.Get(key); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return req, fmt.Errorf("invalid %s: %w", key, err)
			}
			req.Rules[key] = n
		}
	}
	return req, nil
}

// spectatorEvent hides the true card of a play; a resolved challenge reveals it.
func spectatorEvent(ev game.GameEvent) game.GameEvent {
	if ev.Type == game.EventCardPlayed {
		ev.Card = nil
	}
	return ev
}

// sendWsMessage marshals a message and sends it to the WebSocket client.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Debugf("Error writing WebSocket message: %v (Status: %d)", err, status)
		}
	}
}
