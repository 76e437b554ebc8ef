// Package session owns the state of one running timer: the settings store,
// the session log, the phase state machine and its clock. Every intent and
// every tick goes through a single mutex, so mutations never interleave.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/settings"
	"github.com/fakeyudi/tomo/internal/timer"
)

// Options configure a Session. Zero values use wall-clock time, random IDs and
// no completion cue.
type Options struct {
	Settings settings.Settings
	Notifier timer.Notifier
	Now      func() time.Time
	NewID    func() string
	Location *time.Location
}

// Session is the top-level, process-scoped timer state.
type Session struct {
	ID        string
	StartedAt time.Time

	mu       sync.Mutex
	now      func() time.Time
	settings *settings.Store
	log      *history.Log
	machine  *timer.Machine
	clock    timer.Clock
}

// New creates a session in Idle/Focus.
func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	initial := opts.Settings
	if initial == (settings.Settings{}) {
		initial = settings.Defaults()
	}

	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: opts.Now(),
		now:       opts.Now,
		settings:  settings.NewStore(initial),
		log:       history.NewLogIn(opts.Location),
	}
	s.machine = timer.New(s.settings, s.log, timer.Config{
		Notifier: opts.Notifier,
		Now:      opts.Now,
		NewID:    opts.NewID,
	})
	return s
}

// Subscribe registers an observer for machine events. Observers run while the
// session lock is held and must not call back into the session.
func (s *Session) Subscribe(fn func(timer.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Subscribe(fn)
}

// Start begins or resumes the countdown.
func (s *Session) Start() bool {
	return s.apply(s.machine.Start)
}

// Pause stops the countdown mid-way.
func (s *Session) Pause() bool {
	return s.apply(s.machine.Pause)
}

// Toggle starts an Idle or Paused countdown and pauses a Running one.
func (s *Session) Toggle() bool {
	return s.apply(func() bool {
		if s.machine.Snapshot().RunState == model.StateRunning {
			return s.machine.Pause()
		}
		return s.machine.Start()
	})
}

// Reset returns the current phase to a full, idle countdown.
func (s *Session) Reset() bool {
	return s.apply(s.machine.Reset)
}

// SelectPhase switches phase; rejected while Running.
func (s *Session) SelectPhase(p model.Phase) bool {
	return s.apply(func() bool { return s.machine.SelectPhase(p) })
}

// UpdateSettings replaces the settings. The caller supplies a clamped record.
func (s *Session) UpdateSettings(next settings.Settings) {
	s.apply(func() bool {
		s.settings.Replace(next)
		return s.machine.SettingsChanged()
	})
}

// ResetSettingsToDefaults restores the default settings.
func (s *Session) ResetSettingsToDefaults() settings.Settings {
	var d settings.Settings
	s.apply(func() bool {
		d = s.settings.Reset()
		return s.machine.SettingsChanged()
	})
	return d
}

// ClearHistory empties the session log and notifies observers.
func (s *Session) ClearHistory() {
	s.apply(func() bool {
		s.log.Clear()
		return s.machine.HistoryCleared()
	})
}

// Tick applies one clock signal tagged with gen. Ticks from an earlier
// Running period are discarded.
func (s *Session) Tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clock.Accept(gen) {
		return false
	}
	applied := s.machine.Tick()
	s.syncClockLocked()
	return applied
}

// Generation returns the live tick generation and whether a tick should be
// scheduled at all.
func (s *Session) Generation() (uint64, bool) {
	return s.clock.Current()
}

// Snapshot returns the current timer state.
func (s *Session) Snapshot() timer.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Snapshot()
}

// Settings returns the current settings.
func (s *Session) Settings() settings.Settings {
	return s.settings.Get()
}

// History returns a read-only view of the session log.
func (s *Session) History() history.View {
	return s.log.View()
}

// Today returns statistics for the current calendar day.
func (s *Session) Today() history.DayStats {
	return s.log.StatsForDay(s.now())
}

// Now returns the session's notion of the current time.
func (s *Session) Now() time.Time {
	return s.now()
}

func (s *Session) apply(fn func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := fn()
	s.syncClockLocked()
	return applied
}

// syncClockLocked keeps exactly one live tick generation while Running and
// none otherwise.
func (s *Session) syncClockLocked() {
	if s.machine.Snapshot().RunState == model.StateRunning {
		s.clock.Arm()
		return
	}
	s.clock.Disarm()
}
