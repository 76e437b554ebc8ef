// Package history is the append-only log of completed timer sessions and the
// per-day views derived from it.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/fakeyudi/tomo/internal/model"
)

// dayLayout is the calendar-day key used for grouping.
const dayLayout = "2006-01-02"

// Record is one fully completed countdown. Records are never mutated.
type Record struct {
	ID              string      `json:"id" yaml:"id"`
	Phase           model.Phase `json:"phase" yaml:"phase"`
	DurationMinutes int         `json:"duration_minutes" yaml:"duration_minutes"`
	CompletedAt     time.Time   `json:"completed_at" yaml:"completed_at"`
}

// DayGroup is the set of records completed on one calendar day.
type DayGroup struct {
	Key     string    `json:"day" yaml:"day"` // "2006-01-02"
	Day     time.Time `json:"-" yaml:"-"`     // local midnight
	Records []Record  `json:"records" yaml:"records"`
}

// DayStats summarises one calendar day.
type DayStats struct {
	FocusSessionCount int `json:"focus_sessions" yaml:"focus_sessions"`
	TotalMinutes      int `json:"total_minutes" yaml:"total_minutes"`
}

// Log stores records in completion order; readers observe newest first.
type Log struct {
	mu      sync.RWMutex
	records []Record // oldest first, so Append is a plain slice append
	loc     *time.Location
}

// NewLog returns an empty log that groups days in the local time zone.
func NewLog() *Log {
	return NewLogIn(time.Local)
}

// NewLogIn returns an empty log that groups days in loc.
func NewLogIn(loc *time.Location) *Log {
	if loc == nil {
		loc = time.Local
	}
	return &Log{loc: loc}
}

// Append adds r as the most recent record.
func (l *Log) Append(r Record) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

// Clear drops every record.
func (l *Log) Clear() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// All returns a copy of the log, most recent first.
func (l *Log) All() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	for i, r := range l.records {
		out[len(l.records)-1-i] = r
	}
	return out
}

// GroupByDay buckets the log by calendar day of CompletedAt. Groups are
// ordered newest day first; records inside a group keep log order.
func (l *Log) GroupByDay() []DayGroup {
	all := l.All()
	index := make(map[string]int)
	var groups []DayGroup
	for _, r := range all {
		key := l.dayKey(r.CompletedAt)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key, Day: l.startOfDay(r.CompletedAt)})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key > groups[j].Key })
	return groups
}

// StatsForDay counts focus sessions and sums minutes of every phase completed
// on the calendar day containing day.
func (l *Log) StatsForDay(day time.Time) DayStats {
	key := l.dayKey(day)
	l.mu.RLock()
	defer l.mu.RUnlock()

	var stats DayStats
	for _, r := range l.records {
		if l.dayKey(r.CompletedAt) != key {
			continue
		}
		if r.Phase == model.PhaseFocus {
			stats.FocusSessionCount++
		}
		stats.TotalMinutes += r.DurationMinutes
	}
	return stats
}

// HasDay reports whether any record was completed on the day containing day.
func (l *Log) HasDay(day time.Time) bool {
	key := l.dayKey(day)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if l.dayKey(r.CompletedAt) == key {
			return true
		}
	}
	return false
}

func (l *Log) dayKey(t time.Time) string {
	return t.In(l.loc).Format(dayLayout)
}

func (l *Log) startOfDay(t time.Time) time.Time {
	t = t.In(l.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, l.loc)
}

// DayLabel names day relative to now: "Today", "Yesterday" or "Jan 2, 2006".
// Both are compared in now's location.
func DayLabel(day, now time.Time) string {
	day = day.In(now.Location())
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := day.Date()
	start := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	switch {
	case start.Equal(today):
		return "Today"
	case start.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return day.Format("Jan 2, 2006")
}

// DayLabel names day relative to now in the log's location, the same
// calendar GroupByDay uses.
func (l *Log) DayLabel(day, now time.Time) string {
	return DayLabel(day.In(l.loc), now.In(l.loc))
}

// View is a read-only window onto a Log.
type View struct {
	log *Log
}

// View returns a read-only view of l.
func (l *Log) View() View {
	return View{log: l}
}

func (v View) All() []Record                      { return v.log.All() }
func (v View) Len() int                           { return v.log.Len() }
func (v View) GroupByDay() []DayGroup             { return v.log.GroupByDay() }
func (v View) StatsForDay(day time.Time) DayStats { return v.log.StatsForDay(day) }
func (v View) HasDay(day time.Time) bool          { return v.log.HasDay(day) }
func (v View) DayLabel(day, now time.Time) string { return v.log.DayLabel(day, now) }
