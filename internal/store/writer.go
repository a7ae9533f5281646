package store

import (
	"log/slog"

	"github.com/claude/liftlog/internal/workout"
)

// Writer is the write-behind half of the persistence adapter. Mutations hand
// it a snapshot and return immediately; a single goroutine writes snapshots
// to the store in arrival order. A snapshot still pending when a newer one
// arrives is dropped — each snapshot is the complete state, so last write
// wins and nothing needs merging. A failed write is logged and not retried;
// the next mutation re-sends the full state anyway.
type Writer struct {
	store   *Store
	log     *slog.Logger
	pending chan *workout.Session
	quit    chan struct{}
	done    chan struct{}
}

// NewWriter starts the background writer.
func NewWriter(store *Store, log *slog.Logger) *Writer {
	w := &Writer{
		store:   store,
		log:     log,
		pending: make(chan *workout.Session, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules a snapshot for writing. Never blocks: if a snapshot is
// already waiting it is replaced by this newer one.
func (w *Writer) Enqueue(sess *workout.Session) {
	for {
		select {
		case w.pending <- sess:
			return
		default:
		}
		// Channel full — drop the stale pending snapshot and retry.
		select {
		case <-w.pending:
		default:
		}
	}
}

// Close flushes any pending snapshot and stops the writer. After Close
// returns, the last enqueued state is durably written (or its failure
// logged).
func (w *Writer) Close() {
	close(w.quit)
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case sess := <-w.pending:
			w.write(sess)
		case <-w.quit:
			select {
			case sess := <-w.pending:
				w.write(sess)
			default:
			}
			return
		}
	}
}

func (w *Writer) write(sess *workout.Session) {
	if err := w.store.SaveSession(sess); err != nil {
		// Non-fatal: in-memory state stays authoritative for this process.
		w.log.Warn("session snapshot write failed", "error", err)
	}
}
