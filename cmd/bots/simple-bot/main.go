// Command simple-bot connects a number of players and plays matches until
// each one sees GAME_OVER.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"eggrush/internal/game"
	"eggrush/internal/logging"
	"eggrush/internal/network"
	"eggrush/internal/services/cluster"
	"eggrush/internal/session/message"
)

type botConfig struct {
	Server string `env:"SERVER" envDefault:"localhost:8000"`
	// When set, Server is replaced by a healthy instance found in Consul.
	ConsulAddr  string        `env:"CONSUL_ADDR"`
	ServiceName string        `env:"SERVICE_NAME" envDefault:"eggrush"`
	Bots        int           `env:"BOTS" envDefault:"2"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5m"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	// Chance the bot catches an item it sees spawn.
	CatchRate float64 `env:"CATCH_RATE" envDefault:"0.6"`
}

func main() {
	var cfg botConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "EGGRUSH_BOT_"}); err != nil {
		fmt.Fprintf(os.Stderr, "simple-bot: %v\n", err)
		os.Exit(1)
	}
	log := logging.New("simple-bot", cfg.LogLevel, false, os.Stderr)

	if cfg.ConsulAddr != "" {
		client, err := cluster.NewConsulClient(cfg.ConsulAddr, log.Named("consul"))
		if err != nil {
			log.Error("consul unavailable", "error", err)
			os.Exit(1)
		}
		addr, err := cluster.DiscoverHealthy(client, cfg.ServiceName)
		if err != nil {
			log.Error("server discovery failed", "error", err)
			os.Exit(1)
		}
		log.Info("discovered server", "addr", addr)
		cfg.Server = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Bots {
		id := fmt.Sprintf("bot-%d-%s", i, uuid.NewString()[:8])
		g.Go(func() error {
			return play(gctx, cfg, id, log.With("player_id", id))
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("bots failed", "error", err)
		os.Exit(1)
	}
	log.Info("all bots finished", "bots", cfg.Bots)
}

func play(ctx context.Context, cfg botConfig, id string, log hclog.Logger) error {
	u := url.URL{Scheme: "ws", Host: cfg.Server, Path: "/ws/" + id}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	var gameID string

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		msg, err := network.DecodeMessage(data)
		if err != nil {
			log.Debug("bad frame", "error", err)
			continue
		}

		switch msg.Type {
		case message.TypeGameStart:
			start, err := message.Decode[message.GameStart](msg.Payload)
			if err != nil {
				return err
			}
			gameID = start.GameID
			log.Info("match started", "game_id", gameID, "opponent", start.OpponentID)

		case message.TypeItemSpawn:
			spawn, err := message.Decode[message.ItemSpawn](msg.Payload)
			if err != nil {
				return err
			}
			if gameID == "" || rng.Float64() >= cfg.CatchRate {
				continue
			}
			if err := chase(conn, gameID, id, spawn.Item); err != nil {
				return err
			}

		case message.TypeChaosMode:
			chaos, err := message.Decode[message.ChaosMode](msg.Payload)
			if err != nil {
				return err
			}
			log.Debug("chaos mode", "active", chaos.Active)

		case message.TypeGameOver:
			over, err := message.Decode[message.GameOver](msg.Payload)
			if err != nil {
				return err
			}
			log.Info("match over", "game_id", gameID, "winner", over.Winner, "won", over.Winner == id)
			return nil
		}
	}
}

// chase moves the basket under item and reports the catch.
func chase(conn *websocket.Conn, gameID, playerID string, item game.Item) error {
	pos, err := json.Marshal(map[string]float64{"x": item.X, "y": game.FieldHeight})
	if err != nil {
		return err
	}
	err = conn.WriteJSON(message.PlayerMove{
		Type:     message.TypePlayerMove,
		GameID:   gameID,
		Position: pos,
	})
	if err != nil {
		return fmt.Errorf("send move: %w", err)
	}
	err = conn.WriteJSON(message.ItemCollected{
		Type:     message.TypeItemCollected,
		GameID:   gameID,
		PlayerID: playerID,
		ItemID:   item.ID,
	})
	if err != nil {
		return fmt.Errorf("send collect: %w", err)
	}
	return nil
}
