package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/tomo/internal/settings"
)

type formField int

const (
	fieldFocus formField = iota
	fieldShortBreak
	fieldLongBreak
	fieldInterval
	fieldAutoBreaks
	fieldAutoFocus
	fieldCount
)

// numericFields maps the first four form rows onto settings fields.
var numericFields = [...]settings.Field{
	settings.FieldFocus,
	settings.FieldShortBreak,
	settings.FieldLongBreak,
	settings.FieldInterval,
}

var fieldLabels = [fieldCount]string{
	"Focus (minutes)",
	"Short break (minutes)",
	"Long break (minutes)",
	"Long break every",
	"Auto-start breaks",
	"Auto-start focus",
}

// settingsForm edits a copy of the settings; nothing reaches the session
// until it is saved.
type settingsForm struct {
	inputs     [len(numericFields)]textinput.Model
	autoBreaks bool
	autoFocus  bool
	focus      formField
}

func newSettingsForm(s settings.Settings) *settingsForm {
	f := &settingsForm{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 3
		ti.Width = 4
		f.inputs[i] = ti
	}
	f.load(s)
	f.focusCurrent()
	return f
}

// load replaces every field with the values of s.
func (f *settingsForm) load(s settings.Settings) {
	for i, field := range numericFields {
		f.inputs[i].SetValue(strconv.Itoa(s.Get(field)))
		f.inputs[i].CursorEnd()
	}
	f.autoBreaks = s.AutoStartBreaks
	f.autoFocus = s.AutoStartFocus
}

// value parses the form. Invalid numbers fall back to the field default and
// out-of-range numbers are clamped.
func (f *settingsForm) value() settings.Settings {
	var s settings.Settings
	for i, field := range numericFields {
		s = s.With(field, settings.ParseField(field, f.inputs[i].Value()))
	}
	s.AutoStartBreaks = f.autoBreaks
	s.AutoStartFocus = f.autoFocus
	return s
}

func (f *settingsForm) move(delta int) tea.Cmd {
	f.blurCurrent()
	f.focus = formField((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	return f.focusCurrent()
}

func (f *settingsForm) isNumeric() bool {
	return f.focus < formField(len(numericFields))
}

func (f *settingsForm) blurCurrent() {
	if f.isNumeric() {
		f.inputs[f.focus].Blur()
	}
}

func (f *settingsForm) focusCurrent() tea.Cmd {
	if f.isNumeric() {
		f.inputs[f.focus].CursorEnd()
		return f.inputs[f.focus].Focus()
	}
	return nil
}

// toggle flips the focused checkbox; it is a no-op on numeric rows.
func (f *settingsForm) toggle() {
	switch f.focus {
	case fieldAutoBreaks:
		f.autoBreaks = !f.autoBreaks
	case fieldAutoFocus:
		f.autoFocus = !f.autoFocus
	}
}

// update forwards a key to the focused text input.
func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	if !f.isNumeric() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *settingsForm) view(st styles) string {
	var sb strings.Builder
	sb.WriteString(st.heading.Render("Settings") + "\n\n")
	for i := formField(0); i < fieldCount; i++ {
		var val string
		switch {
		case i < formField(len(numericFields)):
			b := settings.BoundsFor(numericFields[i])
			val = f.inputs[i].View() + st.dim.Render(fmt.Sprintf("  %d-%d", b.Min, b.Max))
		case i == fieldAutoBreaks:
			val = checkbox(f.autoBreaks)
		case i == fieldAutoFocus:
			val = checkbox(f.autoFocus)
		}
		label := fmt.Sprintf("%-22s", fieldLabels[i])
		if i == f.focus {
			label = st.selected.Render("> " + label)
		} else {
			label = st.label.Render("  " + label)
		}
		sb.WriteString(label + "  " + val + "\n")
	}
	return sb.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
