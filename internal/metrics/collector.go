// Package metrics is the ambient process-health reporter for a cache
// replica: counters for records produced, dispatched and skipped, written
// to Redis on an interval so an operator can see a replica's health
// without scraping its logs. Generalized from the teacher's
// pkg/metrics.Collector, which reports the same shape of counters for its
// own alert pipeline.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix is the Redis key prefix for a replica's reported health.
	KeyPrefix = "kafkaview:replica:"
	// TTL is how long a replica's reported health stays in Redis if not
	// refreshed; a replica that stops reporting is presumed gone after this.
	TTL = 2 * time.Minute
	// DefaultReportInterval is how often Start writes a snapshot to Redis.
	DefaultReportInterval = 30 * time.Second
)

// Snapshot is the JSON shape written to Redis for one replica.
type Snapshot struct {
	ReplicaID         string    `json:"replica_id"`
	StartedAt         time.Time `json:"started_at"`
	LastUpdated       time.Time `json:"last_updated"`
	RecordsProduced   uint64    `json:"records_produced"`
	RecordsDispatched uint64    `json:"records_dispatched"`
	DecodeErrors      uint64    `json:"decode_errors"`
	ProduceErrors     uint64    `json:"produce_errors"`
}

// Collector accumulates a replica's counters and periodically reports
// them to Redis.
type Collector struct {
	replicaID      string
	redis          *redis.Client
	startedAt      time.Time
	reportInterval time.Duration

	recordsProduced   atomic.Uint64
	recordsDispatched atomic.Uint64
	decodeErrors      atomic.Uint64
	produceErrors     atomic.Uint64

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewCollector creates a collector for the given replica id. redisClient
// may be nil, in which case reporting is a no-op (useful for tests and
// for running without Redis configured).
func NewCollector(replicaID string, redisClient *redis.Client) *Collector {
	return &Collector{
		replicaID:      replicaID,
		redis:          redisClient,
		startedAt:      time.Now().UTC(),
		reportInterval: DefaultReportInterval,
		stopCh:         make(chan struct{}),
	}
}

// Start begins periodic reporting until ctx is cancelled or Stop is called.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.report(context.Background())
				return
			case <-c.stopCh:
				c.report(context.Background())
				return
			case <-ticker.C:
				c.report(ctx)
			}
		}
	}()
}

// Stop halts periodic reporting and waits for the final write to finish.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

// RecordProduced increments the records-produced counter.
func (c *Collector) RecordProduced() { c.recordsProduced.Add(1) }

// RecordDispatched increments the records-dispatched counter.
func (c *Collector) RecordDispatched() { c.recordsDispatched.Add(1) }

// RecordDecodeError increments the decode-errors counter.
func (c *Collector) RecordDecodeError() { c.decodeErrors.Add(1) }

// RecordProduceError increments the produce-errors counter.
func (c *Collector) RecordProduceError() { c.produceErrors.Add(1) }

// GetSnapshot returns the current counters without writing to Redis.
func (c *Collector) GetSnapshot() Snapshot {
	return Snapshot{
		ReplicaID:         c.replicaID,
		StartedAt:         c.startedAt,
		LastUpdated:       time.Now().UTC(),
		RecordsProduced:   c.recordsProduced.Load(),
		RecordsDispatched: c.recordsDispatched.Load(),
		DecodeErrors:      c.decodeErrors.Load(),
		ProduceErrors:     c.produceErrors.Load(),
	}
}

func (c *Collector) report(ctx context.Context) {
	if c.redis == nil {
		return
	}
	snap := c.GetSnapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("failed to marshal replica health snapshot", "replica_id", c.replicaID, "error", err)
		return
	}
	key := KeyPrefix + c.replicaID
	if err := c.redis.Set(ctx, key, data, TTL).Err(); err != nil {
		slog.Error("failed to write replica health to redis", "replica_id", c.replicaID, "error", err)
		return
	}
	slog.Debug("replica health reported", "replica_id", c.replicaID, "key", key)
}

// ConnectRedis creates and validates a Redis connection, matching the
// teacher's pkg/shared.ConnectRedis helper.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
