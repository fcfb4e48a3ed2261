package message

// Client -> server messages.

import (
	"encoding/json"
	"fmt"
)

const (
	TypePlayerMove    = "PLAYER_MOVE"
	TypeItemCollected = "ITEM_COLLECTED"
)

// PlayerMove reports the sender's position. Position is relayed verbatim.
type PlayerMove struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id"`
	Position json.RawMessage `json:"position"`
}

// ItemCollected reports that PlayerID caught ItemID.
type ItemCollected struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
}

// Decode unmarshals a raw message into T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}
