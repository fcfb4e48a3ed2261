package session

import (
	"eggrush/internal/game"
	"eggrush/internal/services/events"
	"eggrush/internal/session/message"
)

// command is work the game loop runs on behalf of a connection handler.
type command interface {
	isCommand()
}

// collectCommand reports that PlayerID caught ItemID.
type collectCommand struct {
	PlayerID string
	ItemID   string
}

func (collectCommand) isCommand() {}

func (s *Session) handleCommand(cmd command) {
	if s.stopped() {
		return
	}
	switch c := cmd.(type) {
	case collectCommand:
		s.collect(c.PlayerID, c.ItemID)
	}
}

// tick runs one game loop iteration: spawn, advance, chaos, broadcast.
func (s *Session) tick() {
	// A removed session must not touch its state or broadcast again.
	if s.stopped() {
		return
	}
	if s.abandoned() {
		s.log.Info("both players gone, abandoning match")
		s.finish("", "", events.ReasonAbandoned)
		return
	}

	res := s.state.Tick(s.rng)
	if res.Spawned != nil {
		s.broadcast(message.NewItemSpawn(*res.Spawned))
	}
	if res.Expired > 0 {
		s.log.Trace("items expired", "count", res.Expired)
	}
	for _, active := range res.ChaosChanges {
		s.log.Debug("chaos mode changed", "active", active)
		s.broadcast(message.NewChaosMode(active))
	}
	s.broadcast(message.NewTickState(s.state.ItemsSnapshot()))
}

// abandoned reports whether neither participant has a live connection.
func (s *Session) abandoned() bool {
	return !s.registry.Connected(s.Players[0]) && !s.registry.Connected(s.Players[1])
}

func (s *Session) collect(playerID, itemID string) {
	outcome := s.state.Collect(playerID, itemID)
	switch outcome {
	case game.CollectIgnored:
		s.log.Debug("ignoring collection", "player_id", playerID, "item_id", itemID)

	case game.CollectEliminated:
		winner := s.Opponent(playerID)
		s.broadcast(message.NewGameOver(winner))
		s.finish(winner, playerID, events.ReasonLivesDepleted)

	default:
		s.broadcast(message.NewCollectState(
			s.state.ScoresSnapshot(),
			s.state.LivesSnapshot(),
			s.state.ItemsSnapshot(),
		))
	}
}
