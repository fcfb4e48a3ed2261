package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"
	"github.com/hashicorp/go-hclog"
)

// Registration describes how this instance announces itself to Consul.
type Registration struct {
	// Comma-separated agent addresses, tried in order.
	ConsulAddr  string
	ServiceName string
	// Host other nodes and the health checker use to reach us.
	// Defaults to the container hostname.
	AdvertiseHost string
	Port          int
}

func (r Registration) host() string {
	if r.AdvertiseHost != "" {
		return r.AdvertiseHost
	}
	if h := os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	h, _ := os.Hostname()
	return h
}

func (r Registration) serviceID() string {
	return fmt.Sprintf("%s-%s-%d", r.ServiceName, r.host(), r.Port)
}

// agentRegistration builds the Consul payload, with an HTTP check on /health.
func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	host := r.host()
	return &consul.AgentServiceRegistration{
		ID:      r.serviceID(),
		Name:    r.ServiceName,
		Address: host,
		Port:    r.Port,
		Tags:    []string{"websocket"},
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", host, r.Port),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register announces the service and returns a func that withdraws it.
func Register(r Registration, log hclog.Logger) (deregister func() error, err error) {
	client, err := NewConsulClient(r.ConsulAddr, log)
	if err != nil {
		return nil, err
	}

	reg := r.agentRegistration()
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return nil, fmt.Errorf("register %s in consul: %w", reg.ID, err)
	}
	log.Info("registered in consul", "service", reg.Name, "id", reg.ID, "consul", r.ConsulAddr)

	return func() error {
		if err := client.Agent().ServiceDeregister(reg.ID); err != nil {
			return fmt.Errorf("deregister %s: %w", reg.ID, err)
		}
		log.Info("deregistered from consul", "id", reg.ID)
		return nil
	}, nil
}
