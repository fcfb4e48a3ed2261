package session

import (
	"eggrush/internal/network"
	"eggrush/internal/session/message"
)

func (h *GameHandler) registerMatchHandlers() {
	h.router[message.TypePlayerMove] = handlePlayerMove
	h.router[message.TypeItemCollected] = handleItemCollected
}

// handlePlayerMove relays the sender's position to their opponent.
func handlePlayerMove(h *GameHandler, p network.Peer, msg network.Message) {
	req, err := message.Decode[message.PlayerMove](msg.Payload)
	if err != nil {
		h.log.Debug("bad PLAYER_MOVE", "player_id", p.PlayerID(), "error", err)
		return
	}

	sess, ok := h.registry.Session(req.GameID)
	if !ok {
		h.log.Debug("move for unknown session", "player_id", p.PlayerID(), "game_id", req.GameID)
		return
	}
	if !sess.Has(p.PlayerID()) {
		h.log.Warn("move from non-participant", "player_id", p.PlayerID(), "game_id", req.GameID)
		return
	}

	_ = h.dispatch.BroadcastToSession(sess.ID, message.NewOpponentMove(req.Position), p.PlayerID())
}

// handleItemCollected hands the collection to the session's game loop.
func handleItemCollected(h *GameHandler, p network.Peer, msg network.Message) {
	req, err := message.Decode[message.ItemCollected](msg.Payload)
	if err != nil {
		h.log.Debug("bad ITEM_COLLECTED", "player_id", p.PlayerID(), "error", err)
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = p.PlayerID()
	}

	sess, ok := h.registry.Session(req.GameID)
	if !ok {
		h.log.Debug("collection for unknown session", "player_id", req.PlayerID, "game_id", req.GameID)
		return
	}

	err = sess.Submit(collectCommand{PlayerID: req.PlayerID, ItemID: req.ItemID})
	if err != nil {
		h.log.Warn("collection dropped", "game_id", sess.ID, "player_id", req.PlayerID, "error", err)
	}
}
