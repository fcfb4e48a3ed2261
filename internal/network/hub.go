package network

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// clientMessage pairs an inbound message with the client that sent it.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub keeps the set of live clients and serializes events into the handler.
type Hub struct {
	// Registered clients. Touched only by the Run goroutine.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	// Closed when Run returns so pumps never block on a stopped hub.
	done chan struct{}

	handler EventHandler
	log     hclog.Logger
}

// NewHub creates a hub that forwards events to handler.
func NewHub(handler EventHandler, log hclog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		done:       make(chan struct{}),
		handler:    handler,
		log:        log,
	}
}

// Run processes events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				c.closeSend()
				h.handler.OnDisconnect(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("client registered", "player_id", c.playerID, "clients", len(h.clients))
			h.handler.OnConnect(c)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				// Closing the queue is what stops the client's writeLoop.
				c.closeSend()
				h.log.Debug("client unregistered", "player_id", c.playerID, "clients", len(h.clients))
				h.handler.OnDisconnect(c)
			}

		case cm := <-h.incoming:
			if _, ok := h.clients[cm.client]; ok {
				h.handler.OnMessage(cm.client, cm.msg)
			}
		}
	}
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) deliver(cm clientMessage) bool {
	select {
	case h.incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}
