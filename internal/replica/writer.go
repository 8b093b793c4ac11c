// Package replica implements the replication log writer and reader: the
// single compacted Kafka topic every cache replica uses to mirror state.
package replica

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"kafkaview/internal/errs"
	"kafkaview/internal/wire"
)

const (
	// maxMessageBytes is the largest record the replication topic accepts;
	// oversize writes are rejected and become lost updates (spec.md §4.2).
	maxMessageBytes = 10_000_000
	// writeTimeout bounds how long a single produce call may block the caller.
	writeTimeout = 10 * time.Second
)

// Writer publishes Set/tombstone records for the replicated cache to one
// Kafka topic. It is safe for concurrent use by every map in the cache
// aggregate and by every request handler that calls Insert.
type Writer struct {
	writer   *kafka.Writer
	topic    string
	recorder Recorder
}

// NewWriter creates a writer for the given brokers and replication topic.
// The producer is configured for fire-and-forget delivery (spec.md §4.2:
// "Returns success as soon as the record is accepted for delivery") with
// gzip compression and the 10MB max message size the bootstrap reader
// relies on.
func NewWriter(brokers []string, topic string) (*Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: brokers cannot be empty", errs.ErrConsumerCreation)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", errs.ErrConsumerCreation)
	}

	slog.Info("initializing replication log writer",
		"brokers", brokers,
		"topic", topic,
	)

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // same (cache_name, key) always lands on the same partition
		Compression:  kafka.Gzip,
		BatchBytes:   maxMessageBytes,
		WriteTimeout: writeTimeout,
		Async:        true, // fire-and-forget: do not await delivery acks on the request path
	}

	slog.Info("replication log writer configured",
		"compression", "gzip",
		"max_message_bytes", maxMessageBytes,
		"async", true,
	)

	return &Writer{writer: w, topic: topic, recorder: noopRecorder{}}, nil
}

// SetRecorder attaches an ambient health recorder; subsequent writes
// increment its counters. Safe to call once before the writer is used
// concurrently.
func (w *Writer) SetRecorder(r Recorder) {
	w.recorder = r
}

// WriteUpdate encodes (cacheName, key) as the physical key and value as the
// payload, and publishes a Set record. It fails with ErrSerialization if
// either encoding fails and with ErrProduce if the client rejects the send.
func (w *Writer) WriteUpdate(cacheName string, key, value any) error {
	return w.send(cacheName, key, value, false)
}

// WriteDelete encodes (cacheName, key) as the physical key and publishes a
// tombstone (absent value) record.
func (w *Writer) WriteDelete(cacheName string, key any) error {
	return w.send(cacheName, key, nil, true)
}

func (w *Writer) send(cacheName string, key, value any, tombstone bool) error {
	physicalKey, err := wire.EncodeKey(cacheName, key)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize key: %v", errs.ErrSerialization, err)
	}

	var payload []byte
	if !tombstone {
		payload, err = wire.EncodeValue(value)
		if err != nil {
			return fmt.Errorf("%w: failed to serialize value: %v", errs.ErrSerialization, err)
		}
	}

	slog.Debug("publishing replication update",
		"cache", cacheName,
		"key_bytes", len(physicalKey),
		"value_bytes", len(payload),
		"tombstone", tombstone,
	)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	msg := kafka.Message{Key: physicalKey, Value: payload}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.recorder.RecordProduceError()
		return fmt.Errorf("%w: %v", errs.ErrProduce, err)
	}
	w.recorder.RecordProduced()
	return nil
}

// Close flushes and closes the underlying Kafka writer.
func (w *Writer) Close() error {
	slog.Info("closing replication log writer", "topic", w.topic)
	return w.writer.Close()
}
