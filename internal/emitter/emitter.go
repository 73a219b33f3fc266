// Package emitter provides the stock schema.Emitter implementations: a no-op
// sink, an slog-backed sink, a plain-writer sink for CLI use, and a recording
// sink for tests.
package emitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/quarrybot/quarrybot/internal/schema"
)

// Noop discards every event.
type Noop struct{}

func (Noop) Emit(context.Context, schema.StatusEvent) error { return nil }

// Slog logs every event through a structured logger.
type Slog struct {
	log *slog.Logger
}

// NewSlog creates a Slog emitter. A nil logger uses slog.Default().
func NewSlog(log *slog.Logger) *Slog {
	if log == nil {
		log = slog.Default()
	}
	return &Slog{log: log}
}

func (s *Slog) Emit(_ context.Context, ev schema.StatusEvent) error {
	s.log.Info("tool status", "description", ev.Description, "done", ev.Done, "hidden", ev.Hidden)
	return nil
}

// Writer prints one status line per event, for interactive CLI runs.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (e *Writer) Emit(_ context.Context, ev schema.StatusEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.w, "[status] %s\n", ev.Description)
	return err
}

// Recorder captures every event for later inspection. Safe for concurrent
// use, since fan-out tools emit from multiple goroutines.
type Recorder struct {
	mu     sync.Mutex
	events []schema.StatusEvent
}

func (r *Recorder) Emit(_ context.Context, ev schema.StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []schema.StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.StatusEvent, len(r.events))
	copy(out, r.events)
	return out
}
