package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
)

const (
	// writeWait is the time allowed to write a frame to the client.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod is the keepalive interval. Must be less than pongWait.
	pingPeriod = 15 * time.Second

	// maxMessageSize bounds frames read from the client.
	maxMessageSize = 512

	// snapshotBuffer bounds queued snapshots per client.
	snapshotBuffer = 16
)

//nolint:gochecknoglobals // Shared read-only upgrader configuration.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		// The gateway is UI-facing on a trusted interface.
		return true
	},
}

// handleSocket upgrades the connection and streams one snapshot frame per
// transition or tick until the client goes away.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnKV(s.ctx, "Websocket upgrade failed", "error", err)

		return
	}

	client := &socketClient{
		conn:    conn,
		updates: make(chan *safety.Snapshot, snapshotBuffer),
		done:    make(chan struct{}),
	}

	remove := s.supervisor.AddListener(client.enqueue)
	defer remove()

	go client.readLoop()
	client.writeLoop()

	logger.Debugf(s.ctx, "Websocket client disconnected: %s", r.RemoteAddr)
}

// socketClient is one connected websocket observer.
type socketClient struct {
	// conn is the upgraded websocket connection.
	conn *websocket.Conn
	// updates queues snapshots for the write loop.
	updates chan *safety.Snapshot
	// done is closed by the read loop when the client goes away.
	done chan struct{}
}

// enqueue queues a snapshot for delivery. A slow client loses older frames:
// the newest snapshot always wins.
func (c *socketClient) enqueue(snapshot *safety.Snapshot) {
	for {
		select {
		case c.updates <- snapshot:
			return
		default:
		}

		// Queue full: discard one stale frame and retry.
		select {
		case <-c.updates:
		default:
		}
	}
}

// readLoop consumes client frames to service pongs and detect disconnects.
func (c *socketClient) readLoop() {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop pushes snapshot frames and pings until the connection ends.
func (c *socketClient) writeLoop() {
	pings := time.NewTicker(pingPeriod)

	defer func() {
		pings.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case snapshot := <-c.updates:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-pings.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
