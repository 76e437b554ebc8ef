// Package model holds the small value types shared by the timer, the session
// log and the settings store.
package model

import (
	"fmt"
	"strings"
)

// Phase is which countdown the timer currently represents.
type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseFocus, PhaseShortBreak, PhaseLongBreak}

// Label returns the human-readable name of p.
func (p Phase) Label() string {
	switch p {
	case PhaseFocus:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return string(p)
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// ParsePhase accepts the canonical names plus a few common spellings
// ("short", "shortBreak", "long-break", ...).
func ParsePhase(s string) (Phase, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "focus", "work", "pomodoro":
		return PhaseFocus, nil
	case "short_break", "shortbreak", "short":
		return PhaseShortBreak, nil
	case "long_break", "longbreak", "long":
		return PhaseLongBreak, nil
	}
	return "", fmt.Errorf("unknown phase %q (want focus, short_break or long_break)", s)
}

// RunState is whether the countdown is ticking, paused or not started.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)
