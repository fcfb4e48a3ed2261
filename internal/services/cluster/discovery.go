package cluster

import (
	"errors"
	"fmt"
	"math/rand/v2"

	consul "github.com/hashicorp/consul/api"
)

// ErrNoHealthyInstance is returned when Consul lists no passing instance.
var ErrNoHealthyInstance = errors.New("no healthy instance")

// DiscoverHealthy returns host:port of a random passing instance of serviceName.
func DiscoverHealthy(client *consul.Client, serviceName string) (string, error) {
	entries, _, err := client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("query %s health: %w", serviceName, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%s: %w", serviceName, ErrNoHealthyInstance)
	}
	return entryAddr(entries[rand.IntN(len(entries))]), nil
}

// entryAddr prefers the service address and falls back to the node's.
func entryAddr(e *consul.ServiceEntry) string {
	addr := e.Service.Address
	if addr == "" {
		addr = e.Node.Address
	}
	return fmt.Sprintf("%s:%d", addr, e.Service.Port)
}
