package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

// Prefix is prepended to every environment variable name.
const Prefix = "EGGRUSH_"

// Config is the server configuration, read from EGGRUSH_* variables.
type Config struct {
	Addr       string        `env:"ADDR" envDefault:":8000"`
	TickPeriod time.Duration `env:"TICK_PERIOD" envDefault:"50ms"`
	SendBuffer int           `env:"SEND_BUFFER" envDefault:"256"`
	InboxSize  int           `env:"INBOX_SIZE" envDefault:"64"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	// Optional integrations; empty disables them.
	NATSURL    string `env:"NATS_URL"`
	ConsulAddr string `env:"CONSUL_ADDR"`

	ServiceName   string `env:"SERVICE_NAME" envDefault:"eggrush"`
	AdvertiseHost string `env:"ADVERTISE_HOST"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.TickPeriod <= 0 {
		result = multierror.Append(result, fmt.Errorf("%sTICK_PERIOD must be positive, got %s", Prefix, c.TickPeriod))
	}
	if c.SendBuffer <= 0 {
		result = multierror.Append(result, fmt.Errorf("%sSEND_BUFFER must be positive, got %d", Prefix, c.SendBuffer))
	}
	if c.InboxSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("%sINBOX_SIZE must be positive, got %d", Prefix, c.InboxSize))
	}
	if _, err := c.Port(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Port extracts the numeric port from Addr.
func (c Config) Port() (int, error) {
	_, portStr, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return 0, fmt.Errorf("%sADDR %q: %w", Prefix, c.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("%sADDR %q: invalid port: %w", Prefix, c.Addr, err)
	}
	return port, nil
}
