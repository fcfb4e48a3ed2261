package session

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Dispatcher routes outbound messages to connected players.
type Dispatcher struct {
	registry *Registry
	log      hclog.Logger
}

func NewDispatcher(registry *Registry, log hclog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// SendTo delivers msg to playerID's current transport.
func (d *Dispatcher) SendTo(playerID string, msg any) error {
	t, ok := d.registry.Transport(playerID)
	if !ok {
		return fmt.Errorf("send to %s: %w", playerID, ErrPlayerNotConnected)
	}
	if err := t.Send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", playerID, err)
	}
	return nil
}

// BroadcastToSession delivers msg to every participant of sessionID except
// those listed in exclude. Each recipient is attempted independently; the
// returned error aggregates the failures. A missing session is a no-op.
func (d *Dispatcher) BroadcastToSession(sessionID string, msg any, exclude ...string) error {
	s, ok := d.registry.Session(sessionID)
	if !ok {
		return nil
	}

	var result *multierror.Error
	for _, p := range s.Players {
		if slices.Contains(exclude, p) {
			continue
		}
		if err := d.SendTo(p, msg); err != nil {
			result = multierror.Append(result, err)
		}
	}

	err := result.ErrorOrNil()
	if err != nil {
		d.log.Debug("broadcast incomplete", "game_id", sessionID, "error", err)
	}
	return err
}
