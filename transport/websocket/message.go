package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const (
	actionState  = "game:state"
	actionUpdate = "game:update"
	actionPlace  = "game:place"
	actionClick  = "game:click"
	actionUndo   = "game:undo"
	actionRedo   = "game:redo"
	actionReset  = "game:reset"
	actionError  = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Row   *int          `json:"row,omitempty"`
	Col   *int          `json:"col,omitempty"`
	X     *float64      `json:"x,omitempty"`
	Y     *float64      `json:"y,omitempty"`
	Event entity.Action `json:"event,omitempty"`
	Game  *entity.Game  `json:"game,omitempty"`
	Error string        `json:"error,omitempty"`
}

func encode(action string, payload Payload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: raw})
}
