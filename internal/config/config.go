package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fakeyudi/tomo/internal/settings"
)

// ProjectFile is the per-directory override file name.
const ProjectFile = ".tomoconfig"

// Config holds all configurable tomo settings. Pointer fields distinguish an
// explicit false/zero from "not set" so a project file can override a global
// true with false.
type Config struct {
	FocusMinutes      *int   `json:"focus_minutes,omitempty"`
	ShortBreakMinutes *int   `json:"short_break_minutes,omitempty"`
	LongBreakMinutes  *int   `json:"long_break_minutes,omitempty"`
	LongBreakInterval *int   `json:"long_break_interval,omitempty"`
	AutoStartBreaks   *bool  `json:"auto_start_breaks,omitempty"`
	AutoStartFocus    *bool  `json:"auto_start_focus,omitempty"`
	Bell              *bool  `json:"bell,omitempty"`
	SoundCommand      string `json:"sound_command,omitempty"` // e.g. "paplay /usr/share/sounds/freedesktop/stereo/complete.oga"
	ReportFormat      string `json:"report_format,omitempty"` // "markdown" | "json" | "yaml"
	OutputDir         string `json:"output_dir,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	d := settings.Defaults()
	return FromSettings(d, Config{
		Bell:         boolPtr(true),
		ReportFormat: "markdown",
		OutputDir:    ".",
	})
}

// FromSettings returns base with every timer field taken from s.
func FromSettings(s settings.Settings, base Config) Config {
	base.FocusMinutes = intPtr(s.FocusMinutes)
	base.ShortBreakMinutes = intPtr(s.ShortBreakMinutes)
	base.LongBreakMinutes = intPtr(s.LongBreakMinutes)
	base.LongBreakInterval = intPtr(s.LongBreakInterval)
	base.AutoStartBreaks = boolPtr(s.AutoStartBreaks)
	base.AutoStartFocus = boolPtr(s.AutoStartFocus)
	return base
}

// Settings returns the timer settings described by c, clamped into range.
// Unset fields take their defaults.
func (c Config) Settings() settings.Settings {
	s := settings.Defaults()
	if c.FocusMinutes != nil {
		s.FocusMinutes = *c.FocusMinutes
	}
	if c.ShortBreakMinutes != nil {
		s.ShortBreakMinutes = *c.ShortBreakMinutes
	}
	if c.LongBreakMinutes != nil {
		s.LongBreakMinutes = *c.LongBreakMinutes
	}
	if c.LongBreakInterval != nil {
		s.LongBreakInterval = *c.LongBreakInterval
	}
	if c.AutoStartBreaks != nil {
		s.AutoStartBreaks = *c.AutoStartBreaks
	}
	if c.AutoStartFocus != nil {
		s.AutoStartFocus = *c.AutoStartFocus
	}
	return settings.Clamp(s)
}

// BellEnabled reports whether the terminal bell should ring on completion.
func (c Config) BellEnabled() bool {
	return c.Bell == nil || *c.Bell
}

// Dir returns the tomo config directory (~/.config/tomo).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tomo"), nil
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadGlobal reads ~/.config/tomo/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .tomoconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile, false)
}

// Load reads and merges the global and project files.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, fmt.Errorf("loading global config: %w", err)
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, fmt.Errorf("loading project config: %w", err)
	}
	return Merge(global, project), nil
}

// SaveGlobal writes c to the global config file, creating the directory.
func SaveGlobal(c Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	if global != nil {
		overlay(&result, global)
	}
	if project != nil {
		overlay(&result, project)
	}
	return result
}

func overlay(dst, src *Config) {
	if src.FocusMinutes != nil {
		dst.FocusMinutes = src.FocusMinutes
	}
	if src.ShortBreakMinutes != nil {
		dst.ShortBreakMinutes = src.ShortBreakMinutes
	}
	if src.LongBreakMinutes != nil {
		dst.LongBreakMinutes = src.LongBreakMinutes
	}
	if src.LongBreakInterval != nil {
		dst.LongBreakInterval = src.LongBreakInterval
	}
	if src.AutoStartBreaks != nil {
		dst.AutoStartBreaks = src.AutoStartBreaks
	}
	if src.AutoStartFocus != nil {
		dst.AutoStartFocus = src.AutoStartFocus
	}
	if src.Bell != nil {
		dst.Bell = src.Bell
	}
	if src.SoundCommand != "" {
		dst.SoundCommand = src.SoundCommand
	}
	if src.ReportFormat != "" {
		dst.ReportFormat = src.ReportFormat
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
