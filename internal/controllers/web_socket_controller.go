package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"roadcall/internal/feed"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// FeedController upgrades mechanic dashboard connections onto the live
// pending-request feed.
type FeedController struct {
	Hub *feed.Hub
}

// PendingFeed serves the mechanic dashboard WebSocket. The connection
// receives the full pending snapshot on connect and again on every
// change; the read loop exists only to detect the client going away.
func (fc *FeedController) PendingFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("websocket upgrade failed")
		return
	}

	fc.Hub.Register(c.Request.Context(), conn)
	defer fc.Hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
