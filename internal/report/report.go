// Package report renders the session log of a finished run into a shareable
// file and reads such files back for viewing.
package report

import (
	"time"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/settings"
)

// Version is the report format version written into every report.
const Version = 1

// Report is the complete, renderable summary of one timer run.
type Report struct {
	Version  int                `json:"version" yaml:"version"`
	Meta     Meta               `json:"meta" yaml:"meta"`
	Settings settings.Settings  `json:"settings" yaml:"settings"`
	Today    history.DayStats   `json:"today" yaml:"today"`
	Days     []history.DayGroup `json:"days" yaml:"days"`
}

// Meta holds summary metadata about the run.
type Meta struct {
	SessionID     string    `json:"session_id" yaml:"session_id"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	Author        string    `json:"author,omitempty" yaml:"author,omitempty"`
	FocusSessions int       `json:"focus_sessions" yaml:"focus_sessions"`
	TotalSessions int       `json:"total_sessions" yaml:"total_sessions"`
}

// Build captures the current state of s.
func Build(s *session.Session, author string) *Report {
	now := s.Now()
	snap := s.Snapshot()
	log := s.History()
	return &Report{
		Version: Version,
		Meta: Meta{
			SessionID:     s.ID,
			StartedAt:     s.StartedAt,
			GeneratedAt:   now,
			Author:        author,
			FocusSessions: snap.CompletedFocusCount,
			TotalSessions: log.Len(),
		},
		Settings: s.Settings(),
		Today:    log.StatsForDay(now),
		Days:     log.GroupByDay(),
	}
}

// restoreDays fills DayGroup.Day, which is not serialised, from the day key.
func (r *Report) restoreDays() {
	for i := range r.Days {
		if d, err := time.ParseInLocation("2006-01-02", r.Days[i].Key, time.Local); err == nil {
			r.Days[i].Day = d
		}
	}
}
