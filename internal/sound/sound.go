// Package sound plays the completion cue. Playback is best effort: failures
// are logged at most and never reach the timer.
package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single playback attempt.
const DefaultTimeout = 10 * time.Second

// ErrNoOutput is returned by players that have nowhere to write.
var ErrNoOutput = errors.New("no audio output available")

// Player produces one completion cue.
type Player interface {
	Play(ctx context.Context) error
}

// Bell rings the terminal bell by writing BEL to W.
type Bell struct {
	W io.Writer
}

func (b *Bell) Play(ctx context.Context) error {
	if b.W == nil {
		return ErrNoOutput
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Command runs an external program such as `paplay done.oga`.
type Command struct {
	Line string
}

func (c *Command) Play(ctx context.Context) error {
	fields := strings.Fields(c.Line)
	if len(fields) == 0 {
		return ErrNoOutput
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w (%s)", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Multi plays every player in order, stopping at the first success.
type Multi []Player

func (m Multi) Play(ctx context.Context) error {
	var errs []error
	for _, p := range m {
		err := p.Play(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrNoOutput
	}
	return errors.Join(errs...)
}

// Cue adapts a Player to the timer's fire-and-forget notifier.
type Cue struct {
	Player  Player
	Timeout time.Duration
	// done, when set, receives the playback result; tests use it to wait.
	done chan<- error
}

// NewCue returns a Cue for p.
func NewCue(p Player) *Cue {
	return &Cue{Player: p, Timeout: DefaultTimeout}
}

// Notify starts playback in the background and returns immediately.
func (c *Cue) Notify() {
	if c == nil || c.Player == nil {
		return
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := c.Player.Play(ctx)
		if err != nil {
			log.Printf("completion sound: %v", err)
		}
		if c.done != nil {
			c.done <- err
		}
	}()
}
