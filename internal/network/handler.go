package network

// Peer is a connected player as seen by the game logic.
type Peer interface {
	PlayerID() string
	// Send queues v for JSON encoding on the connection. It never blocks.
	Send(v any) error
}

// EventHandler connects the network layer to the game logic. All three
// methods are called from the Hub goroutine, one at a time.
type EventHandler interface {
	// OnConnect is called once a client has been upgraded and registered.
	OnConnect(p Peer)

	// OnDisconnect is called after the client's connection is gone.
	OnDisconnect(p Peer)

	// OnMessage is called for each decoded inbound message.
	OnMessage(p Peer, msg Message)
}
