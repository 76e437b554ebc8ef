// Package profile manages the user's persistent tomo profile.
// The profile is stored at ~/.config/tomo/profile.toml and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fakeyudi/tomo/internal/settings"
)

// Theme names accepted by the TUI.
const (
	ThemeTomato = "tomato"
	ThemeMono   = "mono"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	Name  string `toml:"name"`  // report author
	Theme string `toml:"theme"` // "tomato" | "mono"
}

// Default returns the profile used when none is saved.
func Default() Profile {
	return Profile{Theme: ThemeTomato}
}

// Path returns the path to the profile file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tomo", "profile.toml"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. A missing file yields the default
// profile; a malformed one is an error.
func Load() (*Profile, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	prof := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &prof, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	prof.Theme = normalizeTheme(prof.Theme)
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := toml.Marshal(prof)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// Result is what the setup wizard produced.
type Result struct {
	Profile  *Profile
	Settings settings.Settings
}

// RunSetup runs the interactive setup wizard, reading answers from in and
// writing prompts to out. existing and current seed the defaults shown for
// each prompt. Timer answers outside their bounds fall back to the field's
// default.
func RunSetup(existing *Profile, current settings.Settings, in io.Reader, out io.Writer) (*Result, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		ans = strings.ToLower(ans)
		return ans == "y" || ans == "yes", nil
	}

	prof := Default()
	if existing != nil {
		prof = *existing
	}
	s := settings.Clamp(current)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │     tomo - first-time setup     │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	var err error
	prof.Name, err = ask("  Your name (shown in reports)", prof.Name)
	if err != nil {
		return nil, err
	}

	theme, err := ask("  Theme (tomato/mono)", normalizeTheme(prof.Theme))
	if err != nil {
		return nil, err
	}
	prof.Theme = normalizeTheme(theme)

	fields := []struct {
		field  settings.Field
		prompt string
	}{
		{settings.FieldFocus, "  Focus minutes"},
		{settings.FieldShortBreak, "  Short break minutes"},
		{settings.FieldLongBreak, "  Long break minutes"},
		{settings.FieldInterval, "  Focus sessions before a long break"},
	}
	for _, f := range fields {
		ans, err := ask(f.prompt, fmt.Sprint(s.Get(f.field)))
		if err != nil {
			return nil, err
		}
		s = s.With(f.field, settings.ParseField(f.field, ans))
	}

	if s.AutoStartBreaks, err = askBool("  Start breaks automatically", s.AutoStartBreaks); err != nil {
		return nil, err
	}
	if s.AutoStartFocus, err = askBool("  Start focus automatically after a break", s.AutoStartFocus); err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	return &Result{Profile: &prof, Settings: s}, nil
}

func normalizeTheme(theme string) string {
	if strings.EqualFold(strings.TrimSpace(theme), ThemeMono) {
		return ThemeMono
	}
	return ThemeTomato
}
