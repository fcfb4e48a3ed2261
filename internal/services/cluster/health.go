package cluster

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
)

// CheckFunc performs one health check and returns an error when unhealthy.
type CheckFunc func() error

// HealthAggregator runs every registered check behind a single endpoint.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewHealthAggregator creates an empty aggregator. With no checks it reports healthy.
func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

// AddCheck registers check under name, replacing any previous one.
func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Names lists registered checks in sorted order.
func (h *HealthAggregator) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns 200 when every check passes, 503 with the failures otherwise.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		failures := make(map[string]string)
		for name, check := range h.checks {
			if err := check(); err != nil {
				failures[name] = err.Error()
			}
		}
		h.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(failures)
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}
