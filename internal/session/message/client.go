package message

// Server -> client messages. Every message is a flat JSON object with a
// "type" discriminator.

import (
	"encoding/json"

	"eggrush/internal/game"
)

const (
	TypeGameStart    = "GAME_START"
	TypeItemSpawn    = "ITEM_SPAWN"
	TypeChaosMode    = "CHAOS_MODE"
	TypeGameState    = "GAME_STATE"
	TypeOpponentMove = "OPPONENT_MOVE"
	TypeGameOver     = "GAME_OVER"
)

// GameStart announces a new match to one of its players.
type GameStart struct {
	Type       string `json:"type"`
	GameID     string `json:"game_id"`
	OpponentID string `json:"opponent_id"`
}

// ItemSpawn carries a freshly spawned item.
type ItemSpawn struct {
	Type string    `json:"type"`
	Item game.Item `json:"item"`
}

// ChaosMode signals the chaos modifier turning on or off.
type ChaosMode struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// GameState is the full item list, plus scores and lives after a collection.
// The per-tick broadcast leaves Scores and Lives nil so they are omitted.
type GameState struct {
	Type   string         `json:"type"`
	Scores map[string]int `json:"scores,omitempty"`
	Lives  map[string]int `json:"lives,omitempty"`
	Items  []game.Item    `json:"items"`
}

// OpponentMove relays a position reported by the other player.
type OpponentMove struct {
	Type     string          `json:"type"`
	Position json.RawMessage `json:"position"`
}

// GameOver names the winner of a finished match.
type GameOver struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

func NewGameStart(gameID, opponentID string) GameStart {
	return GameStart{Type: TypeGameStart, GameID: gameID, OpponentID: opponentID}
}

func NewItemSpawn(item game.Item) ItemSpawn {
	return ItemSpawn{Type: TypeItemSpawn, Item: item}
}

func NewChaosMode(active bool) ChaosMode {
	return ChaosMode{Type: TypeChaosMode, Active: active}
}

// NewTickState builds the per-tick state broadcast.
func NewTickState(items []game.Item) GameState {
	if items == nil {
		items = []game.Item{}
	}
	return GameState{Type: TypeGameState, Items: items}
}

// NewCollectState builds the state broadcast sent after a collection.
func NewCollectState(scores, lives map[string]int, items []game.Item) GameState {
	s := NewTickState(items)
	s.Scores = scores
	s.Lives = lives
	return s
}

func NewOpponentMove(position json.RawMessage) OpponentMove {
	if len(position) == 0 {
		position = json.RawMessage("null")
	}
	return OpponentMove{Type: TypeOpponentMove, Position: position}
}

func NewGameOver(winner string) GameOver {
	return GameOver{Type: TypeGameOver, Winner: winner}
}
