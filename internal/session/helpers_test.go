package session

import (
	"context"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"eggrush/internal/game"
	"eggrush/internal/services/events"
)

type fakePeer struct {
	id string

	mu   sync.Mutex
	msgs []any
	err  error
}

func newPeer(id string) *fakePeer { return &fakePeer{id: id} }

func (p *fakePeer) PlayerID() string { return p.id }

func (p *fakePeer) Send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, v)
	return nil
}

func (p *fakePeer) messages() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.msgs...)
}

func (p *fakePeer) last() any {
	msgs := p.messages()
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) published() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// seqRand replays values, then returns 0.99 which never spawns.
type seqRand struct {
	vals []float64
}

func (r *seqRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.99
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v
}

type fixture struct {
	registry  *Registry
	dispatch  *Dispatcher
	publisher *recordingPublisher
	deps      deps
}

func newFixture() *fixture {
	log := hclog.NewNullLogger()
	reg := NewRegistry()
	disp := NewDispatcher(reg, log)
	pub := &recordingPublisher{}
	return &fixture{
		registry:  reg,
		dispatch:  disp,
		publisher: pub,
		deps: deps{
			registry:  reg,
			dispatch:  disp,
			publisher: pub,
			log:       log,
			opts:      Options{}.withDefaults(),
		},
	}
}

// startSession creates a session for a and b without running its loop.
func (f *fixture) startSession(t *testing.T, id string, a, b *fakePeer, rng game.Rand) *Session {
	t.Helper()
	f.registry.Register(a.id, a)
	f.registry.Register(b.id, b)
	s := newSession(id, a.id, b.id, f.deps)
	if rng != nil {
		s.rng = rng
	}
	require.NoError(t, f.registry.addSession(s))
	return s
}
