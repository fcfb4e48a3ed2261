package session

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"eggrush/internal/services/events"
	"eggrush/internal/session/message"
)

// Matchmaker keeps the waiting pool and pairs players into sessions. The pool
// is owned by the Run goroutine; the exported methods talk to it over channels.
type Matchmaker struct {
	pool []string

	enqueue chan string
	dequeue chan string
	waiting chan chan []string

	stopped chan struct{}
	running atomic.Bool

	deps deps
	log  hclog.Logger
}

func NewMatchmaker(registry *Registry, dispatch *Dispatcher, publisher events.Publisher, opts Options, log hclog.Logger) *Matchmaker {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Matchmaker{
		enqueue: make(chan string),
		dequeue: make(chan string),
		waiting: make(chan chan []string),
		stopped: make(chan struct{}),
		deps: deps{
			registry:  registry,
			dispatch:  dispatch,
			publisher: publisher,
			log:       log.Named("session"),
			opts:      opts.withDefaults(),
		},
		log: log,
	}
}

// Run owns the pool until ctx is cancelled. Sessions created here run under
// the same ctx.
func (m *Matchmaker) Run(ctx context.Context) error {
	m.running.Store(true)
	defer func() {
		m.running.Store(false)
		close(m.stopped)
	}()

	m.log.Info("matchmaker started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info("matchmaker stopped", "waiting", len(m.pool))
			return nil

		case playerID := <-m.enqueue:
			m.add(ctx, playerID)

		case playerID := <-m.dequeue:
			m.remove(playerID)

		case reply := <-m.waiting:
			reply <- slices.Clone(m.pool)
		}
	}
}

// Enqueue asks the matchmaker to place playerID in the waiting pool.
func (m *Matchmaker) Enqueue(playerID string) error {
	select {
	case m.enqueue <- playerID:
		return nil
	case <-m.stopped:
		return ErrMatchmakerStopped
	}
}

// Dequeue removes playerID from the waiting pool if present.
func (m *Matchmaker) Dequeue(playerID string) error {
	select {
	case m.dequeue <- playerID:
		return nil
	case <-m.stopped:
		return ErrMatchmakerStopped
	}
}

// Waiting returns a copy of the pool in arrival order.
func (m *Matchmaker) Waiting() []string {
	reply := make(chan []string, 1)
	select {
	case m.waiting <- reply:
	case <-m.stopped:
		return nil
	}
	return <-reply
}

// Check is a health check: it fails unless Run is active.
func (m *Matchmaker) Check() error {
	if !m.running.Load() {
		return errors.New("matchmaker is not running")
	}
	return nil
}

func (m *Matchmaker) add(ctx context.Context, playerID string) {
	if slices.Contains(m.pool, playerID) {
		m.log.Debug("player already waiting", "player_id", playerID)
		return
	}

	// A reconnect into a live match resumes it instead of queueing.
	if sess, ok := m.deps.registry.SessionOf(playerID); ok {
		m.log.Info("player rejoined match", "player_id", playerID, "game_id", sess.ID)
		if err := m.deps.dispatch.SendTo(playerID, message.NewGameStart(sess.ID, sess.Opponent(playerID))); err != nil {
			m.log.Warn("resend game start failed", "player_id", playerID, "error", err)
		}
		return
	}

	m.pool = append(m.pool, playerID)
	m.log.Debug("player queued", "player_id", playerID, "waiting", len(m.pool))

	for len(m.pool) >= 2 {
		p1, p2 := m.pool[0], m.pool[1]
		m.pool = m.pool[2:]
		m.startMatch(ctx, p1, p2)
	}
}

func (m *Matchmaker) remove(playerID string) {
	i := slices.Index(m.pool, playerID)
	if i < 0 {
		return
	}
	m.pool = slices.Delete(m.pool, i, i+1)
	m.log.Debug("player left queue", "player_id", playerID, "waiting", len(m.pool))
}

func (m *Matchmaker) startMatch(ctx context.Context, p1, p2 string) {
	sess := newSession(uuid.NewString(), p1, p2, m.deps)
	if err := m.deps.registry.addSession(sess); err != nil {
		m.log.Error("create session failed", "player1", p1, "player2", p2, "error", err)
		return
	}

	m.log.Info("match found", "game_id", sess.ID, "player1", p1, "player2", p2)

	for _, p := range sess.Players {
		if err := m.deps.dispatch.SendTo(p, message.NewGameStart(sess.ID, sess.Opponent(p))); err != nil {
			m.log.Warn("send game start failed", "player_id", p, "error", err)
		}
	}

	err := m.deps.publisher.Publish(ctx, events.MatchStarted{
		GameID:    sess.ID,
		Players:   []string{p1, p2},
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		m.log.Warn("publish match started failed", "game_id", sess.ID, "error", err)
	}

	go sess.Run(ctx)
}
