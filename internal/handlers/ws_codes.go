// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the game stream.
const (
	BadSubprotocolError     websocket.StatusCode = 3000 // Client connected with an unsupported subprotocol.
	InvalidGameRequestError websocket.StatusCode = 3001 // The requested lineup or rules were rejected.
	GameAbortedError        websocket.StatusCode = 3002 // The game was cancelled or timed out before a winner.
)
