package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection bound to a player id.
type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	playerID string
	log      hclog.Logger

	mu     sync.Mutex
	closed bool
	// Outbound queue drained by writeLoop. Buffered so the game loop never
	// waits on a slow connection.
	send chan any
}

func newClient(conn *websocket.Conn, hub *Hub, playerID string, buffer int, log hclog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		log:      log.With("player_id", playerID, "remote", conn.RemoteAddr().String()),
		send:     make(chan any, buffer),
	}
}

// PlayerID returns the id the client connected with.
func (c *Client) PlayerID() string {
	return c.playerID
}

// Send queues v for delivery. A client whose queue is full is treated as a
// stalled consumer: the connection is closed and ErrSendQueueFull returned.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- v:
		return nil
	default:
		c.log.Warn("send queue full, dropping connection")
		_ = c.conn.Close()
		return ErrSendQueueFull
	}
}

// closeSend stops writeLoop. Called by the Hub when the client unregisters.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregisterClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected close", "error", err)
			}
			return
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			c.log.Debug("ignoring malformed message", "error", err)
			continue
		}
		if !c.hub.deliver(clientMessage{client: c, msg: msg}) {
			return
		}
	}
}

// writeLoop pumps the send queue to the websocket and keeps it alive with pings.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The Hub closed the queue.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
