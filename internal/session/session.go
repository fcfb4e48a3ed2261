package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"eggrush/internal/game"
	"eggrush/internal/services/events"
)

// Options tunes every session the matchmaker creates.
type Options struct {
	TickPeriod time.Duration
	InboxSize  int
	// NewRand returns the randomness source for one session.
	NewRand func() game.Rand
}

func (o Options) withDefaults() Options {
	if o.TickPeriod <= 0 {
		o.TickPeriod = game.TickPeriod
	}
	if o.InboxSize <= 0 {
		o.InboxSize = 64
	}
	if o.NewRand == nil {
		o.NewRand = game.NewRand
	}
	return o
}

// deps are the collaborators a session talks to.
type deps struct {
	registry  *Registry
	dispatch  *Dispatcher
	publisher events.Publisher
	log       hclog.Logger
	opts      Options
}

// Session is one running match. Its GameState is touched only by the Run
// goroutine; everything else reaches it through Submit.
type Session struct {
	ID      string
	Players [2]string

	state *game.State
	rng   game.Rand

	inbox    chan command
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	tickPeriod time.Duration
	registry   *Registry
	dispatch   *Dispatcher
	publisher  events.Publisher
	log        hclog.Logger
}

func newSession(id, p1, p2 string, d deps) *Session {
	return &Session{
		ID:         id,
		Players:    [2]string{p1, p2},
		state:      game.NewState(p1, p2),
		rng:        d.opts.NewRand(),
		inbox:      make(chan command, d.opts.InboxSize),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		tickPeriod: d.opts.TickPeriod,
		registry:   d.registry,
		dispatch:   d.dispatch,
		publisher:  d.publisher,
		log:        d.log.With("game_id", id),
	}
}

// Opponent returns the other participant, or "" if playerID is not one.
func (s *Session) Opponent(playerID string) string {
	switch playerID {
	case s.Players[0]:
		return s.Players[1]
	case s.Players[1]:
		return s.Players[0]
	}
	return ""
}

func (s *Session) Has(playerID string) bool {
	return s.Players[0] == playerID || s.Players[1] == playerID
}

// Stop ends the game loop. Safe to call more than once and from any goroutine.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) stopped() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

// Submit queues a command for the game loop without blocking.
func (s *Session) Submit(cmd command) error {
	if s.stopped() {
		return ErrSessionStopped
	}
	select {
	case s.inbox <- cmd:
		return nil
	default:
		return ErrInboxFull
	}
}

// Run is the session's game loop. It returns when the session is stopped or
// ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tickPeriod)
	defer ticker.Stop()

	s.log.Debug("game loop started", "players", s.Players[:])
	defer s.log.Debug("game loop stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			s.handleCommand(cmd)
		case <-ticker.C:
			s.tick()
		}
	}
}

// broadcast sends msg to both participants. Delivery failures are already
// logged by the dispatcher.
func (s *Session) broadcast(msg any) {
	_ = s.dispatch.BroadcastToSession(s.ID, msg)
}

// finish publishes the end of the match and tears the session down.
func (s *Session) finish(winner, loser, reason string) {
	err := s.publisher.Publish(context.Background(), events.MatchEnded{
		GameID:  s.ID,
		Winner:  winner,
		Loser:   loser,
		Reason:  reason,
		EndedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("publish match ended failed", "error", err)
	}
	s.registry.RemoveSession(s.ID)
	s.Stop()
	s.log.Info("match ended", "winner", winner, "loser", loser, "reason", reason)
}
