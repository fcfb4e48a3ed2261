package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultSendBuffer = 256
	shutdownTimeout   = 5 * time.Second
)

// Server accepts websocket connections on /ws/{player_id} and feeds them to a Hub.
type Server struct {
	hub        *Hub
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	sendBuffer int
	log        hclog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithSendBuffer sets the per-client outbound queue length.
func WithSendBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sendBuffer = n
		}
	}
}

// NewServer builds a server that dispatches connection events to handler.
func NewServer(handler EventHandler, log hclog.Logger, opts ...Option) *Server {
	s := &Server{
		hub: NewHub(handler, log.Named("hub")),
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is left to the deployment in front of us.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer: defaultSendBuffer,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("GET /ws/{player_id}", s.wsHandler)
	return s
}

// Handle registers an extra HTTP route next to the websocket endpoint.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler exposes the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run drives the hub until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("player_id")
	if playerID == "" {
		http.Error(w, `{"error": "missing player id"}`, http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "player_id", playerID, "error", err)
		return
	}

	client := newClient(conn, s.hub, playerID, s.sendBuffer, s.log.Named("client"))
	if !s.hub.registerClient(client) {
		_ = conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

// Listen serves HTTP on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, address string) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              address,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("websocket server listening", "addr", address, "endpoint", "/ws/{player_id}")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", address, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
