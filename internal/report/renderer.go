package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/model"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (j *JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// YAMLRenderer renders a Report as YAML.
type YAMLRenderer struct{}

func (y *YAMLRenderer) Render(r *Report) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report yaml: %w", err)
	}
	return data, nil
}

// MarkdownRenderer renders a Report as human-readable Markdown with an
// embedded base64 JSON payload for lossless parsing.
type MarkdownRenderer struct{}

const (
	versionSentinel = "<!-- tomo-report-version: 1 -->"
	dataPrefix      = "<!-- tomo-data: "
	dataSuffix      = " -->"
)

func (m *MarkdownRenderer) Render(r *Report) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	fmt.Fprintf(&sb, "# Pomodoro report — %s\n\n", r.Meta.GeneratedAt.Format("2006-01-02 15:04 MST"))

	sb.WriteString("## Summary\n\n")
	if r.Meta.Author != "" {
		fmt.Fprintf(&sb, "- Author: %s\n", r.Meta.Author)
	}
	fmt.Fprintf(&sb, "- Started: %s\n", r.Meta.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "- Focus sessions: %d\n", r.Meta.FocusSessions)
	fmt.Fprintf(&sb, "- Total sessions: %d\n", r.Meta.TotalSessions)
	fmt.Fprintf(&sb, "- Today: %d focus sessions, %d minutes\n", r.Today.FocusSessionCount, r.Today.TotalMinutes)
	sb.WriteString("\n")

	sb.WriteString("## Settings\n\n")
	s := r.Settings
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	fmt.Fprintf(&sb, "| Focus | %d min |\n", s.FocusMinutes)
	fmt.Fprintf(&sb, "| Short break | %d min |\n", s.ShortBreakMinutes)
	fmt.Fprintf(&sb, "| Long break | %d min |\n", s.LongBreakMinutes)
	fmt.Fprintf(&sb, "| Long break interval | %d |\n", s.LongBreakInterval)
	fmt.Fprintf(&sb, "| Auto-start breaks | %s |\n", yesNo(s.AutoStartBreaks))
	fmt.Fprintf(&sb, "| Auto-start focus | %s |\n", yesNo(s.AutoStartFocus))
	sb.WriteString("\n")

	sb.WriteString("## Sessions\n\n")
	if len(r.Days) == 0 {
		sb.WriteString("_No sessions completed._\n")
	}
	for _, day := range r.Days {
		fmt.Fprintf(&sb, "### %s\n\n", day.Key)
		for _, rec := range day.Records {
			fmt.Fprintf(&sb, "- %s  %s  %d min\n",
				rec.CompletedAt.Format("15:04"),
				rec.Phase.Label(),
				rec.DurationMinutes,
			)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// FocusMinutes sums the focus minutes of a day group.
func FocusMinutes(g history.DayGroup) int {
	total := 0
	for _, r := range g.Records {
		if r.Phase == model.PhaseFocus {
			total += r.DurationMinutes
		}
	}
	return total
}

// ForFormat returns the renderer and file extension for format. Unknown
// formats fall back to Markdown.
func ForFormat(format string) (Renderer, string) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONRenderer{}, ".json"
	case "yaml", "yml":
		return &YAMLRenderer{}, ".yaml"
	default:
		return &MarkdownRenderer{}, ".md"
	}
}

// DefaultName returns the report file name for a run finished at t.
func DefaultName(t time.Time, ext string) string {
	return "tomo-" + t.Format("20060102-150405") + ext
}
