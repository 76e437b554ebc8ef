package report_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/report"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/settings"
)

// generateTime produces an arbitrary UTC time truncated to second precision.
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(1_600_000_000, 1_700_000_000).Draw(t, label+"_unix_sec")
	return time.Unix(sec, 0).UTC()
}

// generateReport produces a report whose day groups are built by a real log.
func generateReport(t *rapid.T) *report.Report {
	log := history.NewLogIn(time.UTC)
	n := rapid.IntRange(0, 12).Draw(t, "records")
	for i := 0; i < n; i++ {
		log.Append(history.Record{
			ID:              rapid.StringMatching(`[a-f0-9]{8}-[a-f0-9]{4}`).Draw(t, "id"),
			Phase:           rapid.SampledFrom(model.Phases).Draw(t, "phase"),
			DurationMinutes: rapid.IntRange(1, 60).Draw(t, "minutes"),
			CompletedAt:     generateTime(t, "completed"),
		})
	}
	generated := generateTime(t, "generated")
	return &report.Report{
		Version: report.Version,
		Meta: report.Meta{
			SessionID:     rapid.StringMatching(`[a-z0-9-]{1,36}`).Draw(t, "session_id"),
			StartedAt:     generateTime(t, "started"),
			GeneratedAt:   generated,
			Author:        rapid.StringMatching(`[A-Za-z ]{0,20}`).Draw(t, "author"),
			FocusSessions: rapid.IntRange(0, 50).Draw(t, "focus_sessions"),
			TotalSessions: log.Len(),
		},
		Settings: settings.Clamp(settings.Settings{
			FocusMinutes:      rapid.IntRange(1, 60).Draw(t, "focus"),
			ShortBreakMinutes: rapid.IntRange(1, 30).Draw(t, "short"),
			LongBreakMinutes:  rapid.IntRange(1, 60).Draw(t, "long"),
			LongBreakInterval: rapid.IntRange(2, 10).Draw(t, "interval"),
			AutoStartBreaks:   rapid.Bool().Draw(t, "auto_breaks"),
			AutoStartFocus:    rapid.Bool().Draw(t, "auto_focus"),
		}),
		Today: log.StatsForDay(generated),
		Days:  log.GroupByDay(),
	}
}

func assertSameReport(t *rapid.T, got, want *report.Report) {
	if got.Version != want.Version {
		t.Errorf("Version: got %d, want %d", got.Version, want.Version)
	}
	gm, wm := got.Meta, want.Meta
	if gm.SessionID != wm.SessionID || gm.Author != wm.Author || gm.FocusSessions != wm.FocusSessions || gm.TotalSessions != wm.TotalSessions {
		t.Errorf("Meta mismatch: got %+v, want %+v", gm, wm)
	}
	if !gm.StartedAt.Equal(wm.StartedAt) || !gm.GeneratedAt.Equal(wm.GeneratedAt) {
		t.Errorf("Meta times mismatch: got %v/%v, want %v/%v", gm.StartedAt, gm.GeneratedAt, wm.StartedAt, wm.GeneratedAt)
	}
	if got.Settings != want.Settings {
		t.Errorf("Settings mismatch: got %+v, want %+v", got.Settings, want.Settings)
	}
	if got.Today != want.Today {
		t.Errorf("Today mismatch: got %+v, want %+v", got.Today, want.Today)
	}
	if len(got.Days) != len(want.Days) {
		t.Fatalf("Days length mismatch: got %d, want %d", len(got.Days), len(want.Days))
	}
	for i := range want.Days {
		g, w := got.Days[i], want.Days[i]
		if g.Key != w.Key {
			t.Errorf("Days[%d].Key: got %s, want %s", i, g.Key, w.Key)
		}
		if g.Day.IsZero() {
			t.Errorf("Days[%d].Day not restored", i)
		}
		if len(g.Records) != len(w.Records) {
			t.Fatalf("Days[%d] records: got %d, want %d", i, len(g.Records), len(w.Records))
		}
		for j := range w.Records {
			gr, wr := g.Records[j], w.Records[j]
			if gr.ID != wr.ID || gr.Phase != wr.Phase || gr.DurationMinutes != wr.DurationMinutes || !gr.CompletedAt.Equal(wr.CompletedAt) {
				t.Errorf("Days[%d].Records[%d]: got %+v, want %+v", i, j, gr, wr)
			}
		}
	}
}

// Feature: tomo, Property 12: report round-trip for every format
func TestReportRoundTrip(t *testing.T) {
	formats := []struct {
		name     string
		renderer report.Renderer
		parser   report.Parser
	}{
		{"json", &report.JSONRenderer{}, &report.JSONParser{}},
		{"yaml", &report.YAMLRenderer{}, &report.YAMLParser{}},
		{"markdown", &report.MarkdownRenderer{}, &report.MarkdownParser{}},
	}
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				original := generateReport(t)
				data, err := f.renderer.Render(original)
				if err != nil {
					t.Fatalf("Render: %v", err)
				}
				got, err := f.parser.Parse(data)
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				assertSameReport(t, got, original)
			})
		})
	}
}

// Feature: tomo, Property 13: Markdown report completeness
func TestMarkdownCompleteness(t *testing.T) {
	renderer := &report.MarkdownRenderer{}
	rapid.Check(t, func(t *rapid.T) {
		r := generateReport(t)
		data, err := renderer.Render(r)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		md := string(data)
		for _, section := range []string{"## Summary", "## Settings", "## Sessions"} {
			if !strings.Contains(md, section) {
				t.Errorf("Markdown output missing section %q", section)
			}
		}
		for _, d := range r.Days {
			if !strings.Contains(md, "### "+d.Key) {
				t.Errorf("Markdown output missing day %s", d.Key)
			}
		}
	})
}

func TestMarkdownParserRejectsPlainMarkdown(t *testing.T) {
	_, err := (&report.MarkdownParser{}).Parse([]byte("# Notes\n\n- just a list\n"))
	if err == nil || !strings.Contains(err.Error(), "not a valid tomo report") {
		t.Fatalf("err = %v, want 'not a valid tomo report'", err)
	}
}

func TestMarkdownParserCorruptedPayload(t *testing.T) {
	doc := "<!-- tomo-report-version: 1 -->\n<!-- tomo-data: !!!not-base64!!! -->\n"
	_, err := (&report.MarkdownParser{}).Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "corrupted base64") {
		t.Fatalf("err = %v, want corrupted base64 error", err)
	}
}

func TestMarkdownParserMissingPayload(t *testing.T) {
	doc := "<!-- tomo-report-version: 1 -->\n\n# Pomodoro report\n"
	_, err := (&report.MarkdownParser{}).Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "missing data payload") {
		t.Fatalf("err = %v, want missing data payload error", err)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"json", ".json"},
		{"YAML", ".yaml"},
		{"yml", ".yaml"},
		{"markdown", ".md"},
		{"", ".md"},
		{"unknown", ".md"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if _, ext := report.ForFormat(tt.format); ext != tt.ext {
				t.Errorf("ForFormat(%q) ext = %q, want %q", tt.format, ext, tt.ext)
			}
		})
	}
}

func TestWriteAndReadFile(t *testing.T) {
	now := time.Date(2024, 5, 10, 16, 30, 0, 0, time.UTC)
	st := settings.Defaults()
	st.FocusMinutes = 1
	s := session.New(session.Options{Settings: st, Now: func() time.Time { return now }, Location: time.UTC})
	s.Start()
	for i := 0; i < 60; i++ {
		gen, _ := s.Generation()
		s.Tick(gen)
	}

	r := report.Build(s, "Ada")
	if r.Meta.TotalSessions != 1 || r.Meta.FocusSessions != 1 {
		t.Fatalf("Build meta = %+v, want 1 focus / 1 total", r.Meta)
	}
	if r.Today.TotalMinutes != 1 {
		t.Errorf("Today.TotalMinutes = %d, want 1", r.Today.TotalMinutes)
	}

	dir := t.TempDir()
	for _, format := range []string{"markdown", "json", "yaml"} {
		renderer, ext := report.ForFormat(format)
		path := filepath.Join(dir, "nested", report.DefaultName(now, ext))
		if err := report.WriteFile(path, r, renderer); err != nil {
			t.Fatalf("WriteFile(%s): %v", format, err)
		}
		got, err := report.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", format, err)
		}
		if got.Meta.Author != "Ada" || len(got.Days) != 1 || len(got.Days[0].Records) != 1 {
			t.Errorf("%s: read back %+v", format, got)
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "nested", "*.tmp"))
		if len(matches) != 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := report.ReadFile(filepath.Join(t.TempDir(), "nope.md"))
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("err = %v, want file not found", err)
	}
}

func TestFocusMinutes(t *testing.T) {
	g := history.DayGroup{Records: []history.Record{
		{Phase: model.PhaseFocus, DurationMinutes: 25},
		{Phase: model.PhaseShortBreak, DurationMinutes: 5},
		{Phase: model.PhaseFocus, DurationMinutes: 30},
	}}
	if got := report.FocusMinutes(g); got != 55 {
		t.Errorf("FocusMinutes = %d, want 55", got)
	}
}
