package timer

import (
	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
)

// EventType defines the type of Machine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
	// EventHistoryCleared follows an emptied session log. Timer state is
	// unchanged.
	EventHistoryCleared EventType = "history_cleared"
)

// Event is delivered to observers after every applied mutation.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Record is set for EventCompleted only.
	Record *history.Record
}

// Snapshot is the working state read by the presentation layer.
type Snapshot struct {
	Phase               model.Phase    `json:"phase"`
	RunState            model.RunState `json:"run_state"`
	SecondsRemaining    int            `json:"seconds_remaining"`
	CompletedFocusCount int            `json:"completed_focus_count"`
	// TotalSeconds is the full length of the current countdown.
	TotalSeconds int `json:"total_seconds"`
}

// Progress is the elapsed fraction of the current countdown in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	p := float64(s.TotalSeconds-s.SecondsRemaining) / float64(s.TotalSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Clock renders SecondsRemaining as MM:SS.
func (s Snapshot) Clock() string {
	return FormatClock(s.SecondsRemaining)
}
