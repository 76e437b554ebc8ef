// Package runner drives a session without a terminal UI. It prints one line
// per state change and per elapsed minute, and reads single-letter commands
// from an optional input stream.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/session"
	"github.com/fakeyudi/tomo/internal/timer"
)

// Help lists the commands accepted on the input stream.
const Help = "commands: p pause/resume, r restart phase, 1 focus, 2 short break, 3 long break, q quit"

// Runner runs a session until it goes idle, the context ends, or "q" is read.
type Runner struct {
	Session *session.Session
	Out     io.Writer
	// In is optional. Each line is one command.
	In io.Reader
	// Interval defaults to timer.TickInterval.
	Interval time.Duration
}

// Run starts the session if needed and blocks. Ticks and commands are
// handled in one loop, so they never interleave.
func (r *Runner) Run(ctx context.Context) error {
	s := r.Session
	interval := r.Interval
	if interval <= 0 {
		interval = timer.TickInterval
	}

	s.Subscribe(r.observe)
	if s.Snapshot().RunState != model.StateRunning {
		s.Start()
	}

	var cmds chan string
	if r.In != nil {
		cmds = make(chan string)
		go scan(ctx, r.In, cmds)
		fmt.Fprintln(r.Out, Help)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	armed, _ := s.Generation()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if gen, ok := s.Generation(); ok {
				s.Tick(gen)
			}

		case line, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			if r.handle(line) {
				return nil
			}
		}

		if s.Snapshot().RunState == model.StateIdle {
			return nil
		}
		// A new generation means the countdown (re)started; the first tick is
		// a full interval away.
		if gen, ok := s.Generation(); ok && gen != armed {
			armed = gen
			ticker.Reset(interval)
		}
	}
}

// handle applies one command and reports whether the runner should stop.
func (r *Runner) handle(line string) bool {
	s := r.Session
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
	case "q", "quit":
		return true
	case "p", "pause", "resume":
		s.Toggle()
	case "r", "restart":
		s.Reset()
		s.Start()
	case "1", "2", "3":
		p := model.Phases[cmd[0]-'1']
		if !s.SelectPhase(p) {
			fmt.Fprintln(r.Out, "pause the timer before switching phase")
			return false
		}
		s.Start()
	default:
		fmt.Fprintln(r.Out, Help)
	}
	return false
}

// observe runs under the session lock; it only writes.
func (r *Runner) observe(ev timer.Event) {
	snap := ev.Snapshot
	switch ev.Type {
	case timer.EventCompleted:
		if ev.Record != nil {
			fmt.Fprintf(r.Out, "%s  %s complete (%d min), focus sessions: %d\n",
				ev.Record.CompletedAt.Format("15:04:05"), ev.Record.Phase.Label(),
				ev.Record.DurationMinutes, snap.CompletedFocusCount)
		}
		fmt.Fprintln(r.Out, statusLine(snap))
	case timer.EventStateChange:
		fmt.Fprintln(r.Out, statusLine(snap))
	case timer.EventHistoryCleared:
		fmt.Fprintln(r.Out, "history cleared")
	case timer.EventTick:
		if snap.SecondsRemaining > 0 && snap.SecondsRemaining%60 == 0 {
			fmt.Fprintln(r.Out, statusLine(snap))
		}
	}
}

func statusLine(snap timer.Snapshot) string {
	return fmt.Sprintf("%-11s %s  %s", snap.Phase.Label(), snap.Clock(), snap.RunState)
}

func scan(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}
