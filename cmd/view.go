package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/report"
	"github.com/fakeyudi/tomo/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View an exported session report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		r, err := report.ReadFile(path)
		if err != nil {
			return err
		}

		if plainOutput {
			printReport(cmd.OutOrStdout(), r, time.Now())
			return nil
		}
		return tui.RunViewer(r, path, tui.ThemeFor(GetProfile().Theme))
	},
}

// printReport writes a plain-text summary to w.
func printReport(w io.Writer, r *report.Report, now time.Time) {
	m := r.Meta
	fmt.Fprintln(w, "## Summary")
	if m.Author != "" {
		fmt.Fprintf(w, "  Author:          %s\n", m.Author)
	}
	fmt.Fprintf(w, "  Started:         %s\n", m.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Generated:       %s\n", m.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Focus sessions:  %d\n", m.FocusSessions)
	fmt.Fprintf(w, "  Total sessions:  %d\n", m.TotalSessions)
	fmt.Fprintf(w, "  Today:           %d focus, %d min\n", r.Today.FocusSessionCount, r.Today.TotalMinutes)
	fmt.Fprintln(w)

	s := r.Settings
	fmt.Fprintln(w, "## Settings")
	fmt.Fprintf(w, "  Focus:             %d min\n", s.FocusMinutes)
	fmt.Fprintf(w, "  Short break:       %d min\n", s.ShortBreakMinutes)
	fmt.Fprintf(w, "  Long break:        %d min\n", s.LongBreakMinutes)
	fmt.Fprintf(w, "  Long break every:  %d\n", s.LongBreakInterval)
	fmt.Fprintf(w, "  Auto-start breaks: %t\n", s.AutoStartBreaks)
	fmt.Fprintf(w, "  Auto-start focus:  %t\n", s.AutoStartFocus)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Sessions")
	if len(r.Days) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, g := range r.Days {
		fmt.Fprintf(w, "  %s (%s, %d focus min)\n", history.DayLabel(g.Day, now), g.Key, report.FocusMinutes(g))
		for _, rec := range g.Records {
			fmt.Fprintf(w, "    %s  %-11s  %d min\n", rec.CompletedAt.Format("15:04"), rec.Phase.Label(), rec.DurationMinutes)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
