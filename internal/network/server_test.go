package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	connected    chan Peer
	disconnected chan Peer
	messages     chan Message
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		connected:    make(chan Peer, 8),
		disconnected: make(chan Peer, 8),
		messages:     make(chan Message, 8),
	}
}

func (h *recordingHandler) OnConnect(p Peer)              { h.connected <- p }
func (h *recordingHandler) OnDisconnect(p Peer)           { h.disconnected <- p }
func (h *recordingHandler) OnMessage(p Peer, msg Message) { h.messages <- msg }

func startServer(t *testing.T, h EventHandler, opts ...Option) (*httptest.Server, string) {
	t.Helper()
	opts = append([]Option{WithSendBuffer(4)}, opts...)
	s := NewServer(h, hclog.NewNullLogger(), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitPeer(t *testing.T, ch <-chan Peer) Peer {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for peer event")
		return nil
	}
}

func TestServerConnectUsesPathPlayerID(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h)

	dial(t, url+"/ws/alice")

	p := waitPeer(t, h.connected)
	assert.Equal(t, "alice", p.PlayerID())
}

func TestServerRoutesInboundMessages(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h)

	conn := dial(t, url+"/ws/alice")
	waitPeer(t, h.connected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"PLAYER_MOVE","game_id":"g1","position":10}`)))

	select {
	case msg := <-h.messages:
		assert.Equal(t, "PLAYER_MOVE", msg.Type)
		assert.JSONEq(t, `{"type":"PLAYER_MOVE","game_id":"g1","position":10}`, string(msg.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestServerIgnoresMalformedJSON(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h)

	conn := dial(t, url+"/ws/alice")
	waitPeer(t, h.connected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"PING"}`)))

	select {
	case msg := <-h.messages:
		assert.Equal(t, "PING", msg.Type, "connection survives a malformed frame")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	assert.Empty(t, h.disconnected)
}

func TestServerSendDeliversJSON(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h)

	conn := dial(t, url+"/ws/bob")
	p := waitPeer(t, h.connected)

	require.NoError(t, p.Send(map[string]any{"type": "GAME_OVER", "winner": "bob"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]any
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "GAME_OVER", got["type"])
	assert.Equal(t, "bob", got["winner"])
}

func TestServerDisconnect(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h)

	conn := dial(t, url+"/ws/carol")
	connected := waitPeer(t, h.connected)
	require.NoError(t, conn.Close())

	gone := waitPeer(t, h.disconnected)
	assert.Equal(t, "carol", gone.PlayerID())
	assert.Same(t, connected, gone)

	assert.ErrorIs(t, gone.Send("late"), ErrClientClosed)
}

func TestServerRejectsMissingPlayerID(t *testing.T) {
	h := newRecordingHandler()
	ts, _ := startServer(t, h)

	resp, err := http.Get(ts.URL + "/ws/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Empty(t, h.connected)
}

func TestServerDropsSlowConsumer(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, h, WithSendBuffer(1))

	// Never read from this connection.
	dial(t, url+"/ws/slow")
	p := waitPeer(t, h.connected)

	big := strings.Repeat("x", 512*1024)
	var err error
	for i := 0; i < 10000 && err == nil; i++ {
		err = p.Send(map[string]string{"type": "GAME_STATE", "pad": big})
	}
	require.ErrorIs(t, err, ErrSendQueueFull)

	gone := waitPeer(t, h.disconnected)
	assert.Equal(t, "slow", gone.PlayerID())
	assert.Same(t, p, gone)
}
