package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes events as JSON on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
	log  hclog.Logger
}

// Connect dials the NATS server at url. The connection reconnects forever
// once established; the initial dial must succeed.
func Connect(url, name string, log hclog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	log.Info("connected to nats", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, log: log}, nil
}

// Publish encodes e and hands it to the client's outbound buffer.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Subject(), err)
	}
	if err := p.conn.Publish(e.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject(), err)
	}
	return nil
}

// Check reports whether the connection is currently usable. Used by /health.
func (p *NATSPublisher) Check() error {
	if !p.conn.IsConnected() {
		return errors.New("nats connection is " + p.conn.Status().String())
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
