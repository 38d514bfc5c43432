// Package feed pushes live pending-request snapshots to connected
// mechanic dashboards over WebSocket.
package feed

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"roadcall/internal/lifecycle"
	"roadcall/internal/models"
)

// Hub fans a single pending-pool subscription out to every connected
// dashboard. Each delivery is the full current snapshot, re-sorted most
// recent first; clients replace their view instead of patching it.
type Hub struct {
	manager   *lifecycle.Manager
	log       *logrus.Logger
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []models.BreakdownRequest
}

func NewHub(manager *lifecycle.Manager, log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		manager:   manager,
		log:       log,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []models.BreakdownRequest, 16),
	}
}

// Run consumes the store subscription until ctx is cancelled. Call once,
// from main, in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	sub := h.manager.WatchPending(ctx)
	defer sub.Close()

	// Run is the only sender; closing here releases the writer goroutine.
	defer close(h.broadcast)

	go h.writeLoop()

	for {
		select {
		case <-ctx.Done():
			return
		case docs, ok := <-sub.C:
			if !ok {
				return
			}
			reqs := make([]models.BreakdownRequest, 0, len(docs))
			for _, doc := range docs {
				var req models.BreakdownRequest
				if err := doc.Decode(&req); err != nil {
					h.log.WithError(err).Warn("feed: dropping undecodable request")
					continue
				}
				reqs = append(reqs, req)
			}
			lifecycle.SortByNewest(reqs)
			select {
			case h.broadcast <- reqs:
			default:
				// writer busy; the next snapshot supersedes this one anyway
			}
		}
	}
}

func (h *Hub) writeLoop() {
	for snapshot := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(snapshot); err != nil {
				h.log.WithError(err).Debug("feed: dropping dead client")
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Register adds a dashboard connection and immediately sends it the
// current pending snapshot so it does not wait for the next poll.
func (h *Hub) Register(ctx context.Context, conn *websocket.Conn) {
	if reqs, err := h.manager.PendingRequests(ctx); err == nil {
		_ = conn.WriteJSON(reqs)
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

// Unregister removes and closes a dashboard connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
