package models

// CallEvent is the lifecycle notification published after a state transition.
type CallEvent struct {
	EventID string            `json:"event_id"`
	Type    string            `json:"type"`
	CallID  string            `json:"call_id"`
	State   CallState         `json:"state"`
	Data    map[string]string `json:"data,omitempty"`
}

// EventTypeStateChange is the only event type currently emitted.
const EventTypeStateChange = "state_change"
