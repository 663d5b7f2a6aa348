package feed

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/samber/lo"
)

const writeTimeout = 5 * time.Second

// ServeHTTP upgrades the request to a WebSocket and streams submission events
// until the client disconnects or the hub drops it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if lo.Contains(h.origins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = h.origins
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.Warn("Feed WebSocket upgrade failed", "error", err)
		return
	}

	sub, ok := h.subscribe()
	if !ok {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unsubscribe(sub)

	// Subscribers only receive; CloseRead handles control frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	h.logger.Info("Feed subscriber connected", "subscriber_id", sub.id)
	defer h.logger.Info("Feed subscriber disconnected", "subscriber_id", sub.id)

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-sub.ch:
			if !ok {
				_ = conn.Close(h.closeReason(sub), "")
				return
			}
			if err := writeWithTimeout(ctx, conn, msg); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.logger.Warn("Failed to write feed event", "subscriber_id", sub.id, "error", err)
				}
				return
			}
		}
	}
}

func (h *Hub) closeReason(s *subscriber) websocket.StatusCode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return s.reason
}

func writeWithTimeout(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
