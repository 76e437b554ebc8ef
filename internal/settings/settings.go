// Package settings holds the user-tunable timer durations and auto-start flags.
package settings

import (
	"strconv"
	"strings"
	"sync"

	"github.com/fakeyudi/tomo/internal/model"
)

// Settings is a complete, valid settings record. All minute fields are > 0 and
// LongBreakInterval is >= 2.
type Settings struct {
	FocusMinutes      int  `json:"focus_minutes" yaml:"focus_minutes"`
	ShortBreakMinutes int  `json:"short_break_minutes" yaml:"short_break_minutes"`
	LongBreakMinutes  int  `json:"long_break_minutes" yaml:"long_break_minutes"`
	LongBreakInterval int  `json:"long_break_interval" yaml:"long_break_interval"`
	AutoStartBreaks   bool `json:"auto_start_breaks" yaml:"auto_start_breaks"`
	AutoStartFocus    bool `json:"auto_start_focus" yaml:"auto_start_focus"`
}

// Defaults returns the fixed default settings.
func Defaults() Settings {
	return Settings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
	}
}

// Minutes returns the configured duration for p.
func (s Settings) Minutes(p model.Phase) int {
	switch p {
	case model.PhaseShortBreak:
		return s.ShortBreakMinutes
	case model.PhaseLongBreak:
		return s.LongBreakMinutes
	default:
		return s.FocusMinutes
	}
}

// Seconds returns the configured duration for p in seconds.
func (s Settings) Seconds(p model.Phase) int {
	return s.Minutes(p) * 60
}

// Store holds the current settings. Updates are whole-record replacements.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

// NewStore returns a store seeded with initial.
func NewStore(initial Settings) *Store {
	return &Store{current: initial}
}

// Get returns the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Replace swaps in s. Callers must pass a complete, already clamped record.
func (st *Store) Replace(s Settings) {
	st.mu.Lock()
	st.current = s
	st.mu.Unlock()
}

// Reset restores the defaults and returns them.
func (st *Store) Reset() Settings {
	d := Defaults()
	st.Replace(d)
	return d
}

// Field names a numeric settings field edited through the settings form.
type Field string

const (
	FieldFocus      Field = "focus_minutes"
	FieldShortBreak Field = "short_break_minutes"
	FieldLongBreak  Field = "long_break_minutes"
	FieldInterval   Field = "long_break_interval"
)

// Bounds are the accepted range and fallback value of a numeric field.
type Bounds struct {
	Min, Max, Default int
}

var fieldBounds = map[Field]Bounds{
	FieldFocus:      {Min: 1, Max: 60, Default: 25},
	FieldShortBreak: {Min: 1, Max: 30, Default: 5},
	FieldLongBreak:  {Min: 1, Max: 60, Default: 15},
	FieldInterval:   {Min: 2, Max: 10, Default: 4},
}

// BoundsFor returns the bounds of f.
func BoundsFor(f Field) Bounds {
	return fieldBounds[f]
}

// Clamp keeps v within b. Non-positive values fall back to the default.
func (b Bounds) Clamp(v int) int {
	if v <= 0 {
		return b.Default
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// ParseField converts form input for f into a clamped value. Non-numeric or
// empty input yields the field default.
func ParseField(f Field, input string) int {
	b := BoundsFor(f)
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return b.Default
	}
	return b.Clamp(n)
}

// Clamp returns s with every numeric field forced into its form bounds.
func Clamp(s Settings) Settings {
	s.FocusMinutes = BoundsFor(FieldFocus).Clamp(s.FocusMinutes)
	s.ShortBreakMinutes = BoundsFor(FieldShortBreak).Clamp(s.ShortBreakMinutes)
	s.LongBreakMinutes = BoundsFor(FieldLongBreak).Clamp(s.LongBreakMinutes)
	s.LongBreakInterval = BoundsFor(FieldInterval).Clamp(s.LongBreakInterval)
	return s
}

// Get returns the value of numeric field f.
func (s Settings) Get(f Field) int {
	switch f {
	case FieldFocus:
		return s.FocusMinutes
	case FieldShortBreak:
		return s.ShortBreakMinutes
	case FieldLongBreak:
		return s.LongBreakMinutes
	case FieldInterval:
		return s.LongBreakInterval
	}
	return 0
}

// With returns a copy of s with numeric field f set to v.
func (s Settings) With(f Field, v int) Settings {
	switch f {
	case FieldFocus:
		s.FocusMinutes = v
	case FieldShortBreak:
		s.ShortBreakMinutes = v
	case FieldLongBreak:
		s.LongBreakMinutes = v
	case FieldInterval:
		s.LongBreakInterval = v
	}
	return s
}
