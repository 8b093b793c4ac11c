package watermark

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kafkaview/internal/errs"
	"kafkaview/internal/metadata"
)

const (
	// maxParallelism bounds the worker pool the fanout spawns tasks on, so
	// a request issuing many watermark queries cannot starve other work
	// (spec.md §4.6, §5).
	maxParallelism = 32
	// queryTimeout bounds each individual watermark RPC.
	queryTimeout = 10 * time.Second
)

// TopicPartition identifies one partition of one topic.
type TopicPartition struct {
	Topic     metadata.TopicName
	Partition int32
}

// Result is one partition's watermark lookup outcome. Err is set instead
// of failing the whole fanout when the underlying query fails, so one bad
// partition never hides the rest (spec.md §4.6).
type Result struct {
	Low, High int64
	Err       error
}

// Fetch looks up the registered consumer for cluster and queries the low
// and high watermark for every pair in parallel, bounded to 32 concurrent
// in-flight queries via errgroup.Group.SetLimit. It returns once every
// query has settled, successfully or not.
func Fetch(ctx context.Context, registry *Registry, cluster metadata.ClusterID, pairs []TopicPartition) (map[TopicPartition]Result, error) {
	consumer, ok := registry.Get(cluster)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoConsumer, cluster)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelism)

	var mu sync.Mutex
	results := make(map[TopicPartition]Result, len(pairs))

	for _, tp := range pairs {
		tp := tp
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, queryTimeout)
			defer cancel()

			low, high, err := consumer.FetchWatermarks(qctx, string(tp.Topic), tp.Partition)

			mu.Lock()
			results[tp] = Result{Low: low, High: high, Err: err}
			mu.Unlock()

			return nil // a failed query never fails the aggregate
		})
	}

	_ = g.Wait()
	return results, nil
}
