package network

import (
	"encoding/json"
	"errors"
)

// Message is one inbound frame. The wire format is a flat JSON object with a
// "type" field, so Payload holds the whole object for later decoding.
type Message struct {
	Type    string
	Payload json.RawMessage
}

const MaxMessageSize = 64 * 1024

var (
	ErrClientClosed  = errors.New("client closed")
	ErrSendQueueFull = errors.New("send queue full")
)

// UnmarshalJSON keeps the raw object and extracts its type.
func (m *Message) UnmarshalJSON(b []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	m.Type = head.Type
	m.Payload = append(json.RawMessage(nil), b...)
	return nil
}

func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}
