package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newTestHub builds a Hub with a discarding logger and starts its Run
// loop, cancelling it automatically at test cleanup.
func newTestHub(t *testing.T) Hub {
	t.Helper()

	logger := zerolog.Nop()
	h := NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	return h
}

// mustEvent polls ch until an event of the given kind arrives or the
// deadline passes, discarding events of other kinds along the way.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("events channel closed while waiting for kind %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

func noEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
