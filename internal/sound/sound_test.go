package sound

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

type stubPlayer struct {
	err   error
	calls int
	block chan struct{}
}

func (s *stubPlayer) Play(ctx context.Context) error {
	s.calls++
	if s.block != nil {
		<-s.block
	}
	return s.err
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	b := &Bell{W: &buf}
	if err := b.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if buf.String() != "\a" {
		t.Errorf("wrote %q, want BEL", buf.String())
	}
}

func TestBellWithoutWriter(t *testing.T) {
	if err := (&Bell{}).Play(context.Background()); !errors.Is(err, ErrNoOutput) {
		t.Errorf("err = %v, want ErrNoOutput", err)
	}
}

func TestCommandEmptyLine(t *testing.T) {
	if err := (&Command{Line: "   "}).Play(context.Background()); !errors.Is(err, ErrNoOutput) {
		t.Errorf("err = %v, want ErrNoOutput", err)
	}
}

func TestCommandMissingBinary(t *testing.T) {
	err := (&Command{Line: "tomo-definitely-missing-player --quiet"}).Play(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestMultiStopsAtFirstSuccess(t *testing.T) {
	failing := &stubPlayer{err: errors.New("no device")}
	ok := &stubPlayer{}
	never := &stubPlayer{}
	if err := (Multi{failing, ok, never}).Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if failing.calls != 1 || ok.calls != 1 || never.calls != 0 {
		t.Errorf("calls = %d/%d/%d, want 1/1/0", failing.calls, ok.calls, never.calls)
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	err := (Multi{&stubPlayer{err: e1}, &stubPlayer{err: e2}}).Play(context.Background())
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("err = %v, want both causes", err)
	}
	if err := (Multi{}).Play(context.Background()); !errors.Is(err, ErrNoOutput) {
		t.Errorf("empty Multi err = %v, want ErrNoOutput", err)
	}
}

func TestCueNotifyDoesNotBlock(t *testing.T) {
	p := &stubPlayer{err: errors.New("device busy"), block: make(chan struct{})}
	done := make(chan error, 1)
	c := &Cue{Player: p, Timeout: time.Second, done: done}

	returned := make(chan struct{})
	go func() {
		c.Notify()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a stalled player")
	}

	close(p.block)
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected the player error to be reported to done")
		}
	case <-time.After(time.Second):
		t.Fatal("playback never finished")
	}
}

func TestNilCueIsSafe(t *testing.T) {
	var c *Cue
	c.Notify()
	(&Cue{}).Notify()
}
