package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"eggrush/internal/config"
	"eggrush/internal/logging"
	"eggrush/internal/network"
	"eggrush/internal/services/cluster"
	"eggrush/internal/services/events"
	"eggrush/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "eggrush: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("eggrush", cfg.LogLevel, cfg.LogJSON, os.Stderr)
	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log hclog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := cluster.NewHealthAggregator()

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, cfg.ServiceName, log.Named("nats"))
		if err != nil {
			return err
		}
		defer nc.Close()
		publisher = nc
		health.AddCheck("nats", nc.Check)
	}

	registry := session.NewRegistry()
	dispatch := session.NewDispatcher(registry, log.Named("dispatch"))
	matchmaker := session.NewMatchmaker(registry, dispatch, publisher, session.Options{
		TickPeriod: cfg.TickPeriod,
		InboxSize:  cfg.InboxSize,
	}, log.Named("matchmaker"))
	health.AddCheck("matchmaker", matchmaker.Check)

	handler := session.NewGameHandler(registry, matchmaker, dispatch, log.Named("handler"))
	server := network.NewServer(handler, log.Named("network"), network.WithSendBuffer(cfg.SendBuffer))
	server.Handle("GET /health", health.Handler())
	log.Debug("health checks registered", "checks", health.Names())

	if cfg.ConsulAddr != "" {
		port, err := cfg.Port()
		if err != nil {
			return err
		}
		deregister, err := cluster.Register(cluster.Registration{
			ConsulAddr:    cfg.ConsulAddr,
			ServiceName:   cfg.ServiceName,
			AdvertiseHost: cfg.AdvertiseHost,
			Port:          port,
		}, log.Named("consul"))
		if err != nil {
			return err
		}
		defer func() {
			if err := deregister(); err != nil {
				log.Warn("consul deregistration failed", "error", err)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return matchmaker.Run(gctx) })
	g.Go(func() error { return server.Listen(gctx, cfg.Addr) })

	log.Info("server starting", "addr", cfg.Addr, "tick", cfg.TickPeriod)
	err := g.Wait()

	registry.StopAll()
	log.Info("server stopped")
	return err
}
