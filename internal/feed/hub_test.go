package feed

import (
	"context"
	"testing"
	"time"

	"roadcall/internal/docstore"
	"roadcall/internal/lifecycle"
)

// Shutting the hub down must release the writer goroutine too: once Run
// returns, the broadcast channel is closed and drained sends stop.
func TestRunShutdownClosesBroadcast(t *testing.T) {
	store := docstore.NewMemoryStore()
	m := lifecycle.NewManager(store, time.Second, nil)
	h := NewHub(m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancel")
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-h.broadcast:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("broadcast channel still open after Run returned")
		}
	}
}
