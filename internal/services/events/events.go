package events

import (
	"context"
	"time"
)

// Subjects published on the bus.
const (
	SubjectMatchStarted = "eggrush.match.started"
	SubjectMatchEnded   = "eggrush.match.ended"
)

// Reasons a match can end.
const (
	ReasonLivesDepleted = "lives_depleted"
	ReasonAbandoned     = "abandoned"
)

// Event is anything that can be published.
type Event interface {
	Subject() string
}

// MatchStarted is emitted when the matchmaker pairs two players.
type MatchStarted struct {
	GameID    string    `json:"game_id"`
	Players   []string  `json:"players"`
	StartedAt time.Time `json:"started_at"`
}

func (MatchStarted) Subject() string { return SubjectMatchStarted }

// MatchEnded is emitted when a session is torn down.
type MatchEnded struct {
	GameID  string    `json:"game_id"`
	Winner  string    `json:"winner,omitempty"`
	Loser   string    `json:"loser,omitempty"`
	Reason  string    `json:"reason"`
	EndedAt time.Time `json:"ended_at"`
}

func (MatchEnded) Subject() string { return SubjectMatchEnded }

// Publisher delivers lifecycle events. Implementations must not block the caller
// for long; sessions publish from their game loop.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. Used when no bus is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
