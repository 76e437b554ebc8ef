// Package tui provides the Bubble Tea interface for running the timer and for
// viewing exported reports.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/settings"
	"github.com/fakeyudi/tomo/internal/timer"
)

type screen int

const (
	screenTimer screen = iota
	screenSettings
	screenHistory
)

// tickMsg is one clock signal. gen ties it to the Running period that
// scheduled it.
type tickMsg struct{ gen uint64 }

// SettingsMsg replaces the session settings, e.g. after the config file was
// edited while the program runs.
type SettingsMsg settings.Settings

func tick(gen uint64) tea.Cmd {
	return tea.Tick(timer.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Model is the root Bubble Tea model for the timer.
type Model struct {
	sess  *session.Session
	theme Theme
	st    styles

	keys     keyMap
	formKeys formKeyMap
	histKeys historyKeyMap
	help     help.Model
	bar      progress.Model
	history  viewport.Model
	form     *settingsForm

	screen    screen
	scheduled uint64 // generation of the live tick chain
	initCmd   tea.Cmd
	seen      int // history length at the last completion check
	status    string
	width     int
	height    int
}

// New creates a timer model for sess. If sess is already running, Init
// schedules its first tick.
func New(sess *session.Session, theme Theme) Model {
	m := Model{
		sess:     sess,
		theme:    theme,
		st:       newStyles(theme),
		keys:     defaultKeyMap(),
		formKeys: defaultFormKeyMap(),
		histKeys: defaultHistoryKeyMap(),
		help:     help.New(),
		bar:      progress.New(progress.WithSolidFill(string(theme.Focus)), progress.WithoutPercentage()),
		history:  viewport.New(60, 12),
		seen:     sess.History().Len(),
	}
	m.bar.Width = 40
	m.initCmd = m.schedule()
	m.syncKeys()
	return m
}

// ── Bubble Tea interface ───────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd { return m.initCmd }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = clamp(msg.Width-8, 10, 60)
		m.history.Width = msg.Width
		m.history.Height = max(msg.Height-3, 1)
		m.refreshHistory()
		return m, nil

	case tickMsg:
		if !m.sess.Tick(msg.gen) {
			return m, nil
		}
		m.noteCompletion()
		m.syncKeys()
		if gen, ok := m.sess.Generation(); ok && gen == msg.gen {
			return m, tick(gen)
		}
		return m, m.schedule()

	case SettingsMsg:
		m.sess.UpdateSettings(settings.Clamp(settings.Settings(msg)))
		m.status = "Settings reloaded"
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenSettings:
			return m.updateForm(msg)
		case screenHistory:
			return m.updateHistory(msg)
		}
		return m.updateTimer(msg)
	}
	return m, nil
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		m.sess.Toggle()
		m.status = ""
	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		m.status = ""
	case key.Matches(msg, m.keys.Focus):
		m.sess.SelectPhase(model.PhaseFocus)
	case key.Matches(msg, m.keys.ShortBreak):
		m.sess.SelectPhase(model.PhaseShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		m.sess.SelectPhase(model.PhaseLongBreak)
	case key.Matches(msg, m.keys.Settings):
		m.form = newSettingsForm(m.sess.Settings())
		m.screen = screenSettings
		return m, m.form.focusCurrent()
	case key.Matches(msg, m.keys.History):
		m.screen = screenHistory
		m.refreshHistory()
		m.history.GotoTop()
		return m, nil
	}
	m.syncKeys()
	return m, m.schedule()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.Cancel):
		m.form = nil
		m.screen = screenTimer
		return m, nil
	case key.Matches(msg, m.formKeys.Save):
		m.sess.UpdateSettings(m.form.value())
		m.form = nil
		m.screen = screenTimer
		m.status = "Settings saved"
		return m, nil
	case key.Matches(msg, m.formKeys.Defaults):
		m.form.load(m.sess.ResetSettingsToDefaults())
		m.status = "Settings reset to defaults"
		return m, nil
	case key.Matches(msg, m.formKeys.Next):
		return m, m.form.move(1)
	case key.Matches(msg, m.formKeys.Prev):
		return m, m.form.move(-1)
	case key.Matches(msg, m.formKeys.Toggle) && !m.form.isNumeric():
		m.form.toggle()
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.histKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.histKeys.Back):
		m.screen = screenTimer
		return m, nil
	case key.Matches(msg, m.histKeys.Clear):
		m.sess.ClearHistory()
		m.seen = 0
		m.status = "History cleared"
		m.refreshHistory()
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// schedule starts a tick chain for a newly armed generation. An armed
// generation that already has a chain is left alone.
func (m *Model) schedule() tea.Cmd {
	gen, ok := m.sess.Generation()
	if !ok || gen == m.scheduled {
		return nil
	}
	m.scheduled = gen
	return tick(gen)
}

func (m *Model) syncKeys() {
	m.keys.setRunning(m.sess.Snapshot().RunState == model.StateRunning)
}

// noteCompletion sets the status line when the last tick logged a record.
func (m *Model) noteCompletion() {
	log := m.sess.History()
	n := log.Len()
	if n > m.seen {
		if all := log.All(); len(all) > 0 {
			rec := all[0]
			m.status = fmt.Sprintf("%s complete (%d min)", rec.Phase.Label(), rec.DurationMinutes)
		}
		m.refreshHistory()
	}
	m.seen = n
}

func (m *Model) refreshHistory() {
	m.histKeys.Clear.SetEnabled(m.sess.History().Len() > 0)
	m.history.SetContent(renderHistory(m.sess, m.st, m.theme))
}

func (m Model) View() string {
	switch m.screen {
	case screenSettings:
		return m.frame(m.form.view(m.st), m.help.View(m.formKeys))
	case screenHistory:
		return m.frame(m.history.View(), m.help.View(m.histKeys))
	}
	return m.frame(m.viewTimer(), m.help.View(m.keys))
}

// frame stacks the title bar, body and help line.
func (m Model) frame(body, helpLine string) string {
	title := m.st.title.Render("tomo")
	if m.width > 0 {
		title = m.st.title.Width(m.width).Render("tomo")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", helpLine)
}

func (m Model) viewTimer() string {
	snap := m.sess.Snapshot()
	accent := m.theme.Accent(snap.Phase)

	// Phase row, active phase highlighted.
	var tabs []string
	for _, p := range model.Phases {
		if p == snap.Phase {
			tabs = append(tabs, m.theme.badge(p))
		} else {
			tabs = append(tabs, m.st.tab.Render(p.Label()))
		}
	}
	phaseRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	clock := m.st.clock.Foreground(accent).Render(snap.Clock())
	bar := m.bar
	bar.FullColor = string(accent)
	state := m.st.dim.Render(stateLabel(snap.RunState))

	today := m.sess.Today()
	counts := fmt.Sprintf("%s %d   %s %d",
		m.st.label.Render("Focus sessions"), snap.CompletedFocusCount,
		m.st.label.Render("Total sessions"), m.sess.History().Len())
	todayCard := m.st.card.Render(fmt.Sprintf("Today  %d focus · %d min",
		today.FocusSessionCount, today.TotalMinutes))

	lines := []string{
		phaseRow,
		clock,
		bar.ViewAs(snap.Progress()),
		state,
		"",
		counts,
		todayCard,
	}
	if m.status != "" {
		lines = append(lines, "", m.st.flash.Render(m.status))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func stateLabel(s model.RunState) string {
	switch s {
	case model.StateRunning:
		return "running"
	case model.StatePaused:
		return "paused"
	}
	return "ready"
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Run starts the timer TUI for sess and blocks until the user quits.
func Run(sess *session.Session, theme Theme, opts ...tea.ProgramOption) error {
	_, err := NewProgram(sess, theme, opts...).Run()
	return err
}

// NewProgram builds the timer program without starting it, so the caller
// can forward messages from other goroutines.
func NewProgram(sess *session.Session, theme Theme, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(New(sess, theme), opts...)
}
