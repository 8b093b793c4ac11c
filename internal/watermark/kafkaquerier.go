package watermark

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaQuerier is the concrete Querier backed by a live Kafka cluster; it
// is what an external collaborator registers per cluster id at startup
// (spec.md's "process-wide consumer registry populated by an external
// collaborator"). Low and high watermarks are read directly from the
// partition leader rather than through a consumer group, since a
// watermark lookup does not need group membership.
type KafkaQuerier struct {
	brokers []string
}

// NewKafkaQuerier returns a Querier for the given cluster's brokers.
func NewKafkaQuerier(brokers []string) *KafkaQuerier {
	return &KafkaQuerier{brokers: brokers}
}

// FetchWatermarks dials the partition leader and reads its first and last
// offsets, which are the retained low and high watermarks.
func (q *KafkaQuerier) FetchWatermarks(ctx context.Context, topic string, partition int32) (int64, int64, error) {
	if len(q.brokers) == 0 {
		return 0, 0, fmt.Errorf("kafka querier has no brokers configured")
	}
	conn, err := kafka.DialLeader(ctx, "tcp", q.brokers[0], topic, int(partition))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to dial partition leader: %w", err)
	}
	defer conn.Close()

	low, err := conn.ReadFirstOffset()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read low watermark: %w", err)
	}
	high, err := conn.ReadLastOffset()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read high watermark: %w", err)
	}
	return low, high, nil
}
