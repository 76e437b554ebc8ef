package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/report"
)

// ── Tab definitions ───────────────────────────────────────────────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabSessions
	tabSettings
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Sessions", "Settings"}

// Viewer is a read-only, tabbed view of an exported report.
type Viewer struct {
	report    *report.Report
	filename  string
	theme     Theme
	st        styles
	now       func() time.Time
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// NewViewer creates a viewer for r loaded from filename.
func NewViewer(r *report.Report, filename string, theme Theme) Viewer {
	return Viewer{
		report:   r,
		filename: filepath.Base(filename),
		theme:    theme,
		st:       newStyles(theme),
		now:      time.Now,
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "tab", "l", "right":
			v.activeTab = (v.activeTab + 1) % tabCount
			return v, nil
		case "shift+tab", "h", "left":
			v.activeTab = (v.activeTab - 1 + tabCount) % tabCount
			return v, nil
		case "1", "2", "3":
			v.activeTab = tabID(msg.String()[0] - '1')
			return v, nil
		}
		if !v.ready {
			return v, nil
		}
		var cmd tea.Cmd
		v.viewports[v.activeTab], cmd = v.viewports[v.activeTab].Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.initViewports()
		return v, nil
	}
	return v, nil
}

func (v Viewer) View() string {
	if !v.ready {
		return "Loading…"
	}

	title := v.st.title.Width(v.width).Render("tomo  " + v.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == v.activeTab {
			tabParts = append(tabParts, v.st.activeTab.Render(label))
		} else {
			tabParts = append(tabParts, v.st.tab.Render(label))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(v.theme.Panel).
		Width(v.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := v.viewports[v.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  q quit"
	pct := fmt.Sprintf("%3.0f%%", v.viewports[v.activeTab].ScrollPercent()*100)
	pad := max(v.width-lipgloss.Width(hint)-len(pct)-2, 1)
	statusBar := v.st.status.Width(v.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

func (v *Viewer) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := max(v.height-3, 1)
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(v.width, vpHeight)
		vp.SetContent(v.renderTab(i))
		v.viewports[i] = vp
	}
}

func (v *Viewer) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return v.renderSummary()
	case tabSessions:
		return v.renderSessions()
	case tabSettings:
		return v.renderSettings()
	}
	return ""
}

func (v *Viewer) row(sb *strings.Builder, label, value string) {
	sb.WriteString(v.st.label.Render(fmt.Sprintf("  %-18s", label)) + "  " + value + "\n")
}

func (v *Viewer) renderSummary() string {
	m := v.report.Meta
	var sb strings.Builder
	sb.WriteString(heading(v.st, "Summary"))
	if m.Author != "" {
		v.row(&sb, "Author:", m.Author)
	}
	v.row(&sb, "Session:", m.SessionID)
	v.row(&sb, "Started:", m.StartedAt.Format("2006-01-02 15:04:05 MST"))
	v.row(&sb, "Generated:", m.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	v.row(&sb, "Focus sessions:", fmt.Sprintf("%d", m.FocusSessions))
	v.row(&sb, "Total sessions:", fmt.Sprintf("%d", m.TotalSessions))

	sb.WriteString(heading(v.st, "Today"))
	v.row(&sb, "Focus sessions:", fmt.Sprintf("%d", v.report.Today.FocusSessionCount))
	v.row(&sb, "Minutes:", fmt.Sprintf("%d", v.report.Today.TotalMinutes))
	return sb.String()
}

func (v *Viewer) renderSessions() string {
	var sb strings.Builder
	sb.WriteString(heading(v.st, fmt.Sprintf("Sessions (%d)", v.report.Meta.TotalSessions)))
	if len(v.report.Days) == 0 {
		sb.WriteString(v.st.dim.Render("  (none)") + "\n")
		return sb.String()
	}
	now := v.now()
	for _, g := range v.report.Days {
		label := history.DayLabel(g.Day, now)
		label += v.st.dim.Render(fmt.Sprintf("  %d focus min", report.FocusMinutes(g)))
		sb.WriteString(dayBlock(g, label, v.st, v.theme))
	}
	return sb.String()
}

func (v *Viewer) renderSettings() string {
	s := v.report.Settings
	var sb strings.Builder
	sb.WriteString(heading(v.st, "Settings"))
	v.row(&sb, "Focus:", fmt.Sprintf("%d min", s.FocusMinutes))
	v.row(&sb, "Short break:", fmt.Sprintf("%d min", s.ShortBreakMinutes))
	v.row(&sb, "Long break:", fmt.Sprintf("%d min", s.LongBreakMinutes))
	v.row(&sb, "Long break every:", fmt.Sprintf("%d focus sessions", s.LongBreakInterval))
	v.row(&sb, "Auto-start breaks:", checkbox(s.AutoStartBreaks))
	v.row(&sb, "Auto-start focus:", checkbox(s.AutoStartFocus))
	return sb.String()
}

// RunViewer starts the report viewer.
func RunViewer(r *report.Report, filename string, theme Theme) error {
	p := tea.NewProgram(NewViewer(r, filename, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
