package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggrush/internal/game"
)

func TestTickStateOmitsScoresAndLives(t *testing.T) {
	b, err := json.Marshal(NewTickState(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GAME_STATE","items":[]}`, string(b))
}

func TestCollectStateWireShape(t *testing.T) {
	msg := NewCollectState(
		map[string]int{"a": 10, "b": 0},
		map[string]int{"a": 3, "b": 2},
		[]game.Item{{ID: "i1", X: 12.5, Y: 40, Type: game.RottenEgg}},
	)
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "GAME_STATE",
		"scores": {"a": 10, "b": 0},
		"lives": {"a": 3, "b": 2},
		"items": [{"id": "i1", "x": 12.5, "y": 40, "type": "rotten_egg"}]
	}`, string(b))
}

func TestOutboundWireShapes(t *testing.T) {
	tests := []struct {
		name string
		msg  any
		want string
	}{
		{"game start", NewGameStart("g1", "bob"), `{"type":"GAME_START","game_id":"g1","opponent_id":"bob"}`},
		{"item spawn", NewItemSpawn(game.Item{ID: "i", X: 1, Type: game.Egg}), `{"type":"ITEM_SPAWN","item":{"id":"i","x":1,"y":0,"type":"egg"}}`},
		{"chaos on", NewChaosMode(true), `{"type":"CHAOS_MODE","active":true}`},
		{"chaos off", NewChaosMode(false), `{"type":"CHAOS_MODE","active":false}`},
		{"move", NewOpponentMove(json.RawMessage(`{"x":120}`)), `{"type":"OPPONENT_MOVE","position":{"x":120}}`},
		{"move without position", NewOpponentMove(nil), `{"type":"OPPONENT_MOVE","position":null}`},
		{"game over", NewGameOver("bob"), `{"type":"GAME_OVER","winner":"bob"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestDecodeInbound(t *testing.T) {
	move, err := Decode[PlayerMove](json.RawMessage(`{"type":"PLAYER_MOVE","game_id":"g1","position":142.5}`))
	require.NoError(t, err)
	assert.Equal(t, "g1", move.GameID)
	assert.JSONEq(t, `142.5`, string(move.Position))

	col, err := Decode[ItemCollected](json.RawMessage(`{"type":"ITEM_COLLECTED","game_id":"g1","player_id":"alice","item_id":"i9"}`))
	require.NoError(t, err)
	assert.Equal(t, ItemCollected{Type: TypeItemCollected, GameID: "g1", PlayerID: "alice", ItemID: "i9"}, col)

	_, err = Decode[ItemCollected](json.RawMessage(`{"game_id":`))
	assert.Error(t, err)
}
