package session

import (
	"github.com/hashicorp/go-hclog"

	"eggrush/internal/network"
)

// CommandHandlerFunc handles one inbound message type.
type CommandHandlerFunc func(h *GameHandler, p network.Peer, msg network.Message)

// GameHandler is the network.EventHandler for the match server. It is called
// from the hub goroutine only.
type GameHandler struct {
	registry   *Registry
	matchmaker *Matchmaker
	dispatch   *Dispatcher
	log        hclog.Logger

	router map[string]CommandHandlerFunc
}

func NewGameHandler(registry *Registry, matchmaker *Matchmaker, dispatch *Dispatcher, log hclog.Logger) *GameHandler {
	h := &GameHandler{
		registry:   registry,
		matchmaker: matchmaker,
		dispatch:   dispatch,
		log:        log,
		router:     make(map[string]CommandHandlerFunc),
	}
	h.registerMatchHandlers()
	return h
}

// OnConnect binds the player's transport and puts them in the waiting pool.
func (h *GameHandler) OnConnect(p network.Peer) {
	id := p.PlayerID()
	h.registry.Register(id, p)
	h.log.Info("player connected", "player_id", id)

	if err := h.matchmaker.Enqueue(id); err != nil {
		h.log.Warn("enqueue failed", "player_id", id, "error", err)
	}
}

// OnDisconnect drops the binding and leaves the waiting pool. An active
// session is left running; it ends when both players are gone.
func (h *GameHandler) OnDisconnect(p network.Peer) {
	id := p.PlayerID()
	if !h.registry.Unregister(id, p) {
		h.log.Debug("stale connection closed", "player_id", id)
		return
	}
	h.log.Info("player disconnected", "player_id", id)

	if err := h.matchmaker.Dequeue(id); err != nil {
		h.log.Debug("dequeue failed", "player_id", id, "error", err)
	}
}

// OnMessage routes msg by its type. Unknown types are dropped.
func (h *GameHandler) OnMessage(p network.Peer, msg network.Message) {
	handler, ok := h.router[msg.Type]
	if !ok {
		h.log.Debug("unknown message type", "player_id", p.PlayerID(), "type", msg.Type)
		return
	}
	handler(h, p, msg)
}
