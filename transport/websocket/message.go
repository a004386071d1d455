package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-web/internal/view"
)

const (
	actionConnect = "connect"
	actionNewGame = "game:new"
	actionTurn    = "game:turn"
	actionJump    = "game:jump"
	actionSort    = "game:sort"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
	Move *int `json:"move,omitempty"`
}

type ResponsePayload struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}
