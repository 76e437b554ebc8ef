package session_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/settings"
	"github.com/fakeyudi/tomo/internal/timer"
)

var fixedNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func newSession(s settings.Settings) *session.Session {
	return session.New(session.Options{
		Settings: s,
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	})
}

// tickOut drives the live generation until the current countdown completes.
func tickOut(t testing.TB, s *session.Session) {
	t.Helper()
	n := s.Snapshot().SecondsRemaining
	for i := 0; i < n; i++ {
		gen, armed := s.Generation()
		if !armed {
			t.Fatalf("clock disarmed after %d of %d ticks", i, n)
		}
		if !s.Tick(gen) {
			t.Fatalf("live tick %d rejected", i+1)
		}
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := session.New(session.Options{})
	if s.ID == "" {
		t.Error("session ID is empty")
	}
	if got := s.Settings(); got != settings.Defaults() {
		t.Errorf("Settings() = %+v, want defaults", got)
	}
	if _, armed := s.Generation(); armed {
		t.Error("clock armed before Start")
	}
}

func TestTodayStatsScenario(t *testing.T) {
	s := newSession(settings.Defaults())

	// focus #1 -> short break -> focus #2
	s.Start()
	tickOut(t, s)
	s.Start()
	tickOut(t, s)
	s.Start()
	tickOut(t, s)

	got := s.Today()
	want := history.DayStats{FocusSessionCount: 2, TotalMinutes: 55}
	if got != want {
		t.Errorf("Today() = %+v, want %+v", got, want)
	}
	if n := s.History().Len(); n != 3 {
		t.Errorf("history length = %d, want 3", n)
	}
}

func TestStaleTickDiscardedAfterPause(t *testing.T) {
	s := newSession(settings.Defaults())
	s.Start()
	stale, _ := s.Generation()
	s.Pause()

	if s.Tick(stale) {
		t.Fatal("tick from the paused countdown was applied")
	}
	if got := s.Snapshot().SecondsRemaining; got != 1500 {
		t.Errorf("SecondsRemaining = %d, want 1500", got)
	}

	s.Start()
	if s.Tick(stale) {
		t.Error("stale tick applied after resume")
	}
	live, armed := s.Generation()
	if !armed || live == stale {
		t.Fatalf("resume did not re-arm with a new generation (live=%d stale=%d armed=%v)", live, stale, armed)
	}
	if !s.Tick(live) {
		t.Error("live tick rejected")
	}
}

func TestStaleTickDiscardedAfterReset(t *testing.T) {
	s := newSession(settings.Defaults())
	s.Start()
	gen, _ := s.Generation()
	s.Tick(gen)
	s.Reset()
	if s.Tick(gen) {
		t.Error("tick applied after reset")
	}
	if _, armed := s.Generation(); armed {
		t.Error("clock still armed after reset")
	}
}

func TestAutoStartKeepsClockArmed(t *testing.T) {
	st := settings.Defaults()
	st.FocusMinutes = 1
	st.AutoStartBreaks = true
	s := newSession(st)
	s.Start()
	tickOut(t, s)
	snap := s.Snapshot()
	if snap.RunState != model.StateRunning || snap.Phase != model.PhaseShortBreak {
		t.Fatalf("after focus = %s/%s, want short_break/running", snap.Phase, snap.RunState)
	}
	if _, armed := s.Generation(); !armed {
		t.Error("clock disarmed although the break auto-started")
	}
}

func TestToggle(t *testing.T) {
	s := newSession(settings.Defaults())
	s.Toggle()
	if got := s.Snapshot().RunState; got != model.StateRunning {
		t.Fatalf("after first Toggle = %s, want running", got)
	}
	s.Toggle()
	if got := s.Snapshot().RunState; got != model.StatePaused {
		t.Fatalf("after second Toggle = %s, want paused", got)
	}
}

func TestClearHistory(t *testing.T) {
	st := settings.Defaults()
	st.FocusMinutes = 1
	s := newSession(st)
	s.Start()
	tickOut(t, s)
	var cleared []timer.Event
	s.Subscribe(func(ev timer.Event) {
		if ev.Type == timer.EventHistoryCleared {
			cleared = append(cleared, ev)
		}
	})
	s.ClearHistory()
	if len(cleared) != 1 {
		t.Fatalf("history_cleared events = %d, want 1", len(cleared))
	}
	if cleared[0].Snapshot.CompletedFocusCount != 1 {
		t.Errorf("event snapshot focus count = %d, want 1", cleared[0].Snapshot.CompletedFocusCount)
	}
	if all := s.History().All(); len(all) != 0 {
		t.Errorf("history after clear = %v, want empty", all)
	}
	if got := s.Snapshot().CompletedFocusCount; got != 1 {
		t.Errorf("clearing history changed focus count to %d", got)
	}
}

func TestHistoryIsReadOnly(t *testing.T) {
	s := newSession(settings.Defaults())
	view := any(s.History())
	if _, ok := view.(interface{ Append(history.Record) }); ok {
		t.Error("History() exposes Append")
	}
	if _, ok := view.(interface{ Clear() }); ok {
		t.Error("History() exposes Clear")
	}
}

func TestUpdateSettingsWhileIdle(t *testing.T) {
	s := newSession(settings.Defaults())
	st := settings.Defaults()
	st.FocusMinutes = 40
	s.UpdateSettings(st)
	if got := s.Snapshot().SecondsRemaining; got != 2400 {
		t.Errorf("SecondsRemaining = %d, want 2400", got)
	}
	if got := s.ResetSettingsToDefaults(); got != settings.Defaults() {
		t.Errorf("ResetSettingsToDefaults() = %+v", got)
	}
	if got := s.Snapshot().SecondsRemaining; got != 1500 {
		t.Errorf("after defaults SecondsRemaining = %d, want 1500", got)
	}
}

func TestUpdateSettingsWhilePausedDeferred(t *testing.T) {
	s := newSession(settings.Defaults())
	s.Start()
	gen, _ := s.Generation()
	s.Tick(gen)
	s.Pause()
	st := settings.Defaults()
	st.FocusMinutes = 5
	s.UpdateSettings(st)
	if got := s.Snapshot().SecondsRemaining; got != 1499 {
		t.Errorf("paused countdown changed to %d, want 1499", got)
	}
	s.Reset()
	if got := s.Snapshot().SecondsRemaining; got != 300 {
		t.Errorf("after reset = %d, want 300", got)
	}
}

func TestSubscribeSeesCompletion(t *testing.T) {
	st := settings.Defaults()
	st.FocusMinutes = 1
	s := newSession(st)
	var got []timer.EventType
	s.Subscribe(func(ev timer.Event) {
		if ev.Type != timer.EventTick {
			got = append(got, ev.Type)
		}
	})
	s.Start()
	tickOut(t, s)
	if len(got) != 2 || got[0] != timer.EventStateChange || got[1] != timer.EventCompleted {
		t.Errorf("events = %v, want [state_change completed]", got)
	}
}

// Feature: tomo, Property 10: selectPhase is rejected while running and forces idle otherwise
func TestSelectPhaseProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newSession(settings.Defaults())
		switch rapid.SampledFrom([]model.RunState{model.StateIdle, model.StateRunning, model.StatePaused}).Draw(t, "state") {
		case model.StateRunning:
			s.Start()
		case model.StatePaused:
			s.Start()
			s.Pause()
		}
		target := rapid.SampledFrom(model.Phases).Draw(t, "target")
		before := s.Snapshot()
		applied := s.SelectPhase(target)
		after := s.Snapshot()

		if before.RunState == model.StateRunning {
			if applied || after != before {
				t.Fatalf("SelectPhase while running changed state: %+v -> %+v", before, after)
			}
			return
		}
		if !applied {
			t.Fatalf("SelectPhase rejected from %s", before.RunState)
		}
		if after.Phase != target || after.RunState != model.StateIdle {
			t.Fatalf("after SelectPhase = %s/%s, want %s/idle", after.Phase, after.RunState, target)
		}
		if want := s.Settings().Minutes(target) * 60; after.SecondsRemaining != want {
			t.Fatalf("SecondsRemaining = %d, want %d", after.SecondsRemaining, want)
		}
	})
}

// Feature: tomo, Property 11: the clock is armed exactly while running
func TestClockArmedIffRunning(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		st := settings.Defaults()
		st.FocusMinutes, st.ShortBreakMinutes, st.LongBreakMinutes = 1, 1, 1
		st.AutoStartBreaks = rapid.Bool().Draw(t, "auto_breaks")
		st.AutoStartFocus = rapid.Bool().Draw(t, "auto_focus")
		s := newSession(st)
		steps := rapid.IntRange(1, 400).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 6).Draw(t, "op") {
			case 0:
				s.Start()
			case 1:
				s.Pause()
			case 2:
				s.Reset()
			case 3:
				s.SelectPhase(rapid.SampledFrom(model.Phases).Draw(t, "phase"))
			default:
				gen, _ := s.Generation()
				s.Tick(gen)
			}
			_, armed := s.Generation()
			running := s.Snapshot().RunState == model.StateRunning
			if armed != running {
				t.Fatalf("armed=%v while run state %s", armed, s.Snapshot().RunState)
			}
		}
	})
}
