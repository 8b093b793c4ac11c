// Package watermark implements the bounded-parallelism watermark lookup
// used by the offset-lag view, and the process-wide registry of per
// cluster consumer handles it looks up before fanning out.
package watermark

import (
	"context"
	"sync"

	"kafkaview/internal/metadata"
)

// Querier is the subset of a cluster's Kafka consumer handle the fanout
// needs: a single-partition low/high watermark lookup. Kept as an
// interface (rather than a concrete client type) so callers can inject a
// fake for tests (spec.md testable property 8).
type Querier interface {
	FetchWatermarks(ctx context.Context, topic string, partition int32) (low, high int64, err error)
}

// Registry is the process-wide mapping from cluster id to consumer
// handle. spec.md §9 asks for this to be passed explicitly rather than
// kept as a global mutable singleton, so it is a constructed value an
// external collaborator populates at startup, not a package-level var.
type Registry struct {
	mu        sync.RWMutex
	consumers map[metadata.ClusterID]Querier
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{consumers: make(map[metadata.ClusterID]Querier)}
}

// Register associates a cluster id with its consumer handle.
func (r *Registry) Register(cluster metadata.ClusterID, q Querier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consumers[cluster] = q
}

// Get returns the consumer handle for cluster, if one has been registered.
func (r *Registry) Get(cluster metadata.ClusterID) (Querier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.consumers[cluster]
	return q, ok
}
