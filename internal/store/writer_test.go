package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/claude/liftlog/internal/workout"
)

// TestWriterFlushesLastSnapshot verifies Close drains the pending snapshot,
// so the last mutation before shutdown is durable.
func TestWriterFlushesLastSnapshot(t *testing.T) {
	s := testStore(t)
	w := NewWriter(s, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sess := sampleSession()
	sess.Notes = "final"
	w.Enqueue(sess)
	w.Close()

	got, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Notes != "final" {
		t.Errorf("got %+v, want flushed snapshot with notes=final", got)
	}
}

// TestWriterCoalesces verifies a burst of enqueues never blocks and the
// newest state wins. Intermediate snapshots may be skipped — only the last
// write is guaranteed.
func TestWriterCoalesces(t *testing.T) {
	s := testStore(t)
	w := NewWriter(s, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var last *workout.Session
	for i := 0; i < 200; i++ {
		sess := sampleSession()
		sess.Notes = string(rune('a' + i%26))
		w.Enqueue(sess)
		last = sess
	}
	w.Close()

	got, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Notes != last.Notes {
		t.Errorf("persisted notes = %v, want last enqueued %q", got, last.Notes)
	}
}

// TestWriterCloseIsIdempotentEnough verifies enqueue-then-close with no
// intervening writes still lands exactly the enqueued state.
func TestWriterEnqueueThenImmediateClose(t *testing.T) {
	s := testStore(t)
	w := NewWriter(s, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w.Enqueue(sampleSession())
	w.Close()

	got, err := s.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.WorkoutID != "w-1" {
		t.Errorf("got %+v, want enqueued snapshot", got)
	}
}
