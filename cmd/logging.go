package cmd

import (
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// logPath returns $XDG_STATE_HOME/tomo/tomo.log, defaulting the state
// directory to ~/.local/state.
func logPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "tomo", "tomo.log"), nil
}

// setupLogging routes the standard logger. Without --debug everything is
// discarded. With it, the TUI logs to a file (the screen belongs to Bubble
// Tea) and plain mode logs to stderr. The returned func closes the log file.
func setupLogging(stderr io.Writer, fullscreen bool) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if !fullscreen {
		log.SetOutput(stderr)
		log.SetPrefix("tomo: ")
		return func() {}, nil
	}
	path, err := logPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := tea.LogToFile(path, "tomo")
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
