package entity

import "time"

// Action names the session operation that produced an event.
type Action string

const (
	ActionPlace Action = "place"
	ActionUndo  Action = "undo"
	ActionRedo  Action = "redo"
	ActionReset Action = "reset"
)

// Event is emitted after every state change of a session.
type Event struct {
	SessionID string    `json:"session_id"`
	Action    Action    `json:"action"`
	Game      *Game     `json:"game"`
	At        time.Time `json:"at"`
}
