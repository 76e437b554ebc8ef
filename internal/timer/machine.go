// Package timer implements the Pomodoro phase state machine and the
// generation-tagged clock that drives it.
package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/settings"
)

// SettingsSource supplies the current settings.
type SettingsSource interface {
	Get() settings.Settings
}

// Recorder receives one record per completed countdown.
type Recorder interface {
	Append(r history.Record)
}

// Notifier is asked to play the completion cue. It must not block and must
// swallow its own failures.
type Notifier interface {
	Notify()
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func()

func (f NotifierFunc) Notify() { f() }

// Config contains optional collaborators for Machine.
type Config struct {
	Notifier Notifier
	Now      func() time.Time
	NewID    func() string
}

// Machine is the phase state machine. It is not safe for concurrent use;
// callers serialize intents and ticks.
type Machine struct {
	settings  SettingsSource
	recorder  Recorder
	notifier  Notifier
	now       func() time.Time
	newID     func() string
	observers []func(Event)

	phase      model.Phase
	state      model.RunState
	remaining  int
	total      int
	focusCount int
}

// New returns a machine in Idle/Focus with a full focus countdown.
func New(src SettingsSource, rec Recorder, cfg Config) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	m := &Machine{
		settings: src,
		recorder: rec,
		notifier: cfg.Notifier,
		now:      cfg.Now,
		newID:    cfg.NewID,
		phase:    model.PhaseFocus,
		state:    model.StateIdle,
	}
	m.recompute()
	return m
}

// Subscribe registers fn to be called synchronously after every applied mutation.
func (m *Machine) Subscribe(fn func(Event)) {
	m.observers = append(m.observers, fn)
}

// Snapshot returns the current working state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Phase:               m.phase,
		RunState:            m.state,
		SecondsRemaining:    m.remaining,
		CompletedFocusCount: m.focusCount,
		TotalSeconds:        m.total,
	}
}

// Start moves Idle or Paused to Running.
func (m *Machine) Start() bool {
	if m.state == model.StateRunning {
		return false
	}
	m.state = model.StateRunning
	m.emit(EventStateChange, nil)
	return true
}

// Pause moves Running to Paused.
func (m *Machine) Pause() bool {
	if m.state != model.StateRunning {
		return false
	}
	m.state = model.StatePaused
	m.emit(EventStateChange, nil)
	return true
}

// Reset returns to Idle with a full countdown for the current phase. Phase and
// the focus count are kept and nothing is logged.
func (m *Machine) Reset() bool {
	m.state = model.StateIdle
	m.recompute()
	m.emit(EventStateChange, nil)
	return true
}

// SelectPhase switches to p and forces Idle. It is rejected while Running so a
// countdown in progress is never lost.
func (m *Machine) SelectPhase(p model.Phase) bool {
	if m.state == model.StateRunning {
		return false
	}
	m.phase = p
	m.state = model.StateIdle
	m.recompute()
	m.emit(EventStateChange, nil)
	return true
}

// SettingsChanged recomputes the countdown when Idle. A Running or Paused
// countdown keeps its length until the machine next becomes Idle.
func (m *Machine) SettingsChanged() bool {
	if m.state != model.StateIdle {
		return false
	}
	m.recompute()
	m.emit(EventStateChange, nil)
	return true
}

// HistoryCleared tells observers the session log was emptied. The focus
// count keeps driving the long-break cadence.
func (m *Machine) HistoryCleared() bool {
	m.emit(EventHistoryCleared, nil)
	return true
}

// Tick advances a Running countdown by one second and runs the completion
// logic when it reaches zero.
func (m *Machine) Tick() bool {
	if m.state != model.StateRunning {
		return false
	}
	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining > 0 {
		m.emit(EventTick, nil)
		return true
	}
	m.complete()
	return true
}

func (m *Machine) complete() {
	m.state = model.StateIdle

	if m.notifier != nil {
		m.notifier.Notify()
	}

	cfg := m.settings.Get()
	rec := history.Record{
		ID:              m.newID(),
		Phase:           m.phase,
		DurationMinutes: cfg.Minutes(m.phase),
		CompletedAt:     m.now(),
	}
	if m.recorder != nil {
		m.recorder.Append(rec)
	}

	next := model.PhaseFocus
	autoStart := cfg.AutoStartFocus
	if m.phase == model.PhaseFocus {
		m.focusCount++
		next = model.PhaseShortBreak
		if cfg.LongBreakInterval > 0 && m.focusCount%cfg.LongBreakInterval == 0 {
			next = model.PhaseLongBreak
		}
		autoStart = cfg.AutoStartBreaks
	}

	m.phase = next
	m.recompute()
	if autoStart {
		m.state = model.StateRunning
	}
	m.emit(EventCompleted, &rec)
}

func (m *Machine) recompute() {
	m.total = m.settings.Get().Seconds(m.phase)
	m.remaining = m.total
}

func (m *Machine) emit(t EventType, rec *history.Record) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{Type: t, Snapshot: m.Snapshot(), Record: rec}
	for _, fn := range m.observers {
		fn(ev)
	}
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
