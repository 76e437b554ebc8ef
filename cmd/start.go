package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tomo/internal/config"
	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/report"
	"github.com/fakeyudi/tomo/internal/runner"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/sound"
	"github.com/fakeyudi/tomo/internal/timer"
	"github.com/fakeyudi/tomo/internal/tui"
	"github.com/fakeyudi/tomo/internal/watch"
)

var (
	startPhase  string
	startPlain  bool
	startReport string
	startSave   bool
	startFormat string
)

// tickInterval is the plain-mode clock period; tests shorten it.
var tickInterval = timer.TickInterval

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the timer",
	Long: "Run the timer. In a terminal the interactive screen is used; with --plain or\n" +
		"when output is redirected, progress is printed one line at a time.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetConfig()

		phase := model.PhaseFocus
		if startPhase != "" {
			p, err := model.ParsePhase(startPhase)
			if err != nil {
				return err
			}
			phase = p
		}

		plain := startPlain || !term.IsTerminal(os.Stdout.Fd())
		closeLog, err := setupLogging(cmd.ErrOrStderr(), !plain)
		if err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}
		defer closeLog()

		sess := session.New(session.Options{
			Settings: c.Settings(),
			Notifier: newCue(c, cmd.ErrOrStderr()),
		})
		sess.SelectPhase(phase)
		log.Printf("session %s started with %+v", sess.ID, sess.Settings())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if plain {
			err = runPlain(ctx, cmd, sess)
		} else {
			err = runTUI(ctx, sess)
		}
		if err != nil {
			return err
		}

		path, renderer := reportTarget(c, sess.Now())
		if path == "" {
			return nil
		}
		if err := report.WriteFile(path, report.Build(sess, GetProfile().Name), renderer); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", path)
		return nil
	},
}

func runPlain(ctx context.Context, cmd *cobra.Command, sess *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go watchConfig(ctx, func(c config.Config) {
		sess.UpdateSettings(c.Settings())
	})

	r := &runner.Runner{
		Session:  sess,
		Out:      cmd.OutOrStdout(),
		In:       cmd.InOrStdin(),
		Interval: tickInterval,
	}
	return r.Run(ctx)
}

func runTUI(ctx context.Context, sess *session.Session) error {
	sess.Start()
	p := tui.NewProgram(sess, tui.ThemeFor(GetProfile().Theme), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchConfig(ctx, func(c config.Config) {
		p.Send(tui.SettingsMsg(c.Settings()))
	})

	_, err := p.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchConfig reloads the config files until ctx ends.
func watchConfig(ctx context.Context, apply func(config.Config)) {
	w := &watch.Watcher{Paths: watch.Paths(), OnChange: func(c config.Config) {
		log.Printf("config reloaded")
		apply(c)
	}}
	if err := w.Run(ctx); err != nil {
		log.Printf("config watch: %v", err)
	}
}

// newCue builds the completion sound from config: the configured command
// first, then the terminal bell.
func newCue(c config.Config, bell io.Writer) timer.Notifier {
	var players sound.Multi
	if c.SoundCommand != "" {
		players = append(players, &sound.Command{Line: c.SoundCommand})
	}
	if c.BellEnabled() {
		players = append(players, &sound.Bell{W: bell})
	}
	if len(players) == 0 {
		return nil
	}
	return sound.NewCue(players)
}

// reportTarget resolves where the report goes and how it is rendered. An
// empty path means no report was requested.
func reportTarget(c config.Config, now time.Time) (string, report.Renderer) {
	format := startFormat
	if format == "" && startReport != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(startReport)), ".")
		if format == "md" {
			format = "markdown"
		}
	}
	if format == "" {
		format = c.ReportFormat
	}
	renderer, ext := report.ForFormat(format)

	switch {
	case startReport != "":
		return startReport, renderer
	case startSave:
		dir := c.OutputDir
		if dir == "" {
			dir = "."
		}
		return filepath.Join(dir, report.DefaultName(now, ext)), renderer
	}
	return "", nil
}

func init() {
	startCmd.Flags().StringVar(&startPhase, "phase", "", "phase to start in: focus, short_break or long_break")
	startCmd.Flags().BoolVar(&startPlain, "plain", false, "print progress lines instead of the interactive screen")
	startCmd.Flags().StringVar(&startReport, "report", "", "write the session report to `FILE` on exit")
	startCmd.Flags().BoolVar(&startSave, "save", false, "write the session report to the configured output directory on exit")
	startCmd.Flags().StringVar(&startFormat, "format", "", "report format: markdown, json or yaml (overrides config)")
	rootCmd.AddCommand(startCmd)
}
