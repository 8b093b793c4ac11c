package replica

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"kafkaview/internal/errs"
	"kafkaview/internal/kafkautil"
	"kafkaview/internal/wire"
)

// Reader subscribes to the replication topic and dispatches decoded
// updates to an UpdateReceiver. Bootstrap and tailing are separate
// operations (spec.md §9 REDESIGN FLAG): Bootstrap terminates once every
// partition has been read up to the high-water mark observed at its
// start, Tail streams the same per-partition readers forever.
//
// Each partition is read directly (no consumer group), which sidesteps
// the "shared consumer group id" bug spec.md §9 describes: replicas
// never compete for partitions because none of them ever joins a group.
// id is still generated for logging/identity.
type Reader struct {
	id      string
	brokers []string
	topic   string

	mu      sync.RWMutex
	readers map[int]*kafka.Reader

	recorder Recorder
}

// NewReader builds a reader for the given brokers and replication topic.
func NewReader(brokers []string, topic string) (*Reader, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: brokers cannot be empty", errs.ErrConsumerCreation)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", errs.ErrConsumerCreation)
	}
	return &Reader{
		id:       uuid.NewString(),
		brokers:  brokers,
		topic:    topic,
		readers:  make(map[int]*kafka.Reader),
		recorder: noopRecorder{},
	}, nil
}

// SetRecorder attaches an ambient health recorder; subsequent dispatches
// increment its counters. Call before Bootstrap/Tail/LoadState.
func (r *Reader) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// ID returns this reader's generated instance identity, used as the
// ambient health collector's replica id.
func (r *Reader) ID() string {
	return r.id
}

// LoadState performs Bootstrap and then streams forever via Tail,
// matching spec.md's single named public operation.
func (r *Reader) LoadState(ctx context.Context, receiver UpdateReceiver) error {
	if err := r.Bootstrap(ctx, receiver); err != nil {
		return err
	}
	return r.Tail(ctx, receiver)
}

// Bootstrap replays the replication topic from the earliest offset,
// dispatching every record to receiver in log order (so the receiver ends
// up holding the last record per physical key), and returns once every
// partition has reached the high-water mark it had when Bootstrap started
// (spec.md §4.3 bootstrap algorithm). A partition whose high-water mark
// cannot be read is logged and not waited for.
func (r *Reader) Bootstrap(ctx context.Context, receiver UpdateReceiver) error {
	slog.Info("bootstrap starting", "reader_id", r.id, "topic", r.topic)

	conn, err := kafka.Dial("tcp", r.brokers[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMetadataFetch, err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(r.topic)
	if err != nil {
		if errors.Is(err, kafka.UnknownTopicOrPartition) {
			slog.Warn("replication topic not found, starting with empty cache",
				"brokers", r.brokers, "topic", r.topic)
			return nil
		}
		return fmt.Errorf("%w: %v", errs.ErrMetadataFetch, err)
	}
	if len(partitions) == 0 {
		slog.Warn("replication topic has no partitions", "topic", r.topic)
		return nil
	}

	var wg sync.WaitGroup
	for _, p := range partitions {
		pr := r.partitionReader(p.ID)

		hwm, err := r.highWaterMark(p.ID)
		if err != nil {
			slog.Error("failed to read high watermark, skipping bootstrap wait for partition",
				"partition", p.ID, "error", err)
			continue
		}
		if hwm == 0 {
			continue // empty partition: nothing to replay
		}

		wg.Add(1)
		go func(target int64) {
			defer wg.Done()
			r.drainUntil(ctx, pr, target, receiver)
		}(hwm - 1)
	}
	wg.Wait()

	slog.Info("bootstrap complete", "reader_id", r.id, "topic", r.topic, "partitions", len(partitions))
	return nil
}

// Tail streams every partition reader created during Bootstrap (or lazily
// created here, if Tail is called without a prior Bootstrap) forever,
// dispatching each record to receiver until ctx is cancelled.
func (r *Reader) Tail(ctx context.Context, receiver UpdateReceiver) error {
	r.mu.RLock()
	readers := make([]*kafka.Reader, 0, len(r.readers))
	for _, pr := range r.readers {
		readers = append(readers, pr)
	}
	r.mu.RUnlock()

	if len(readers) == 0 {
		conn, err := kafka.Dial("tcp", r.brokers[0])
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrMetadataFetch, err)
		}
		partitions, err := conn.ReadPartitions(r.topic)
		conn.Close()
		if err != nil {
			if errors.Is(err, kafka.UnknownTopicOrPartition) {
				return nil
			}
			return fmt.Errorf("%w: %v", errs.ErrMetadataFetch, err)
		}
		for _, p := range partitions {
			readers = append(readers, r.partitionReader(p.ID))
		}
	}

	var wg sync.WaitGroup
	for _, pr := range readers {
		pr := pr
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.tailPartition(ctx, pr, receiver)
		}()
	}
	wg.Wait()
	return nil
}

// Close closes every per-partition reader.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, pr := range r.readers {
		if err := pr.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Reader) partitionReader(partition int) *kafka.Reader {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pr, ok := r.readers[partition]; ok {
		return pr
	}
	pr := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     r.brokers,
		Topic:       r.topic,
		Partition:   partition,
		MinBytes:    kafkautil.MinFetchBytes,
		MaxBytes:    kafkautil.MaxFetchBytes,
		MaxWait:     kafkautil.MaxPollWait,
		StartOffset: kafka.FirstOffset,
	})
	r.readers[partition] = pr
	return pr
}

// highWaterMark returns the offset one past the last record currently on
// the given partition, used as the bootstrap completion target.
func (r *Reader) highWaterMark(partition int) (int64, error) {
	conn, err := kafka.DialLeader(context.Background(), "tcp", r.brokers[0], r.topic, partition)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return conn.ReadLastOffset()
}

func (r *Reader) drainUntil(ctx context.Context, pr *kafka.Reader, targetOffset int64, receiver UpdateReceiver) {
	for {
		msg, err := pr.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("stream error while bootstrapping", "partition", pr.Config().Partition, "error", err)
			continue
		}
		r.dispatch(msg, receiver)
		if msg.Offset >= targetOffset {
			return
		}
	}
}

func (r *Reader) tailPartition(ctx context.Context, pr *kafka.Reader, receiver UpdateReceiver) {
	for {
		msg, err := pr.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("stream error while tailing", "partition", pr.Config().Partition, "error", err)
			continue
		}
		r.dispatch(msg, receiver)
	}
}

func (r *Reader) dispatch(msg kafka.Message, receiver UpdateReceiver) {
	wrapped, err := wire.DecodeKey(msg.Key)
	if err != nil {
		r.recorder.RecordDecodeError()
		slog.Warn("failed to decode wrapped key, skipping record",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return
	}

	var update Update
	if msg.Value == nil {
		update = Update{Kind: Delete, Key: wrapped.UserKey}
	} else {
		update = Update{Kind: Set, Key: wrapped.UserKey, Payload: msg.Value}
	}

	if err := receiver.ReceiveUpdate(wrapped.CacheName, update); err != nil {
		slog.Warn("receiver failed to apply update",
			"cache", wrapped.CacheName, "error", err)
		return
	}
	r.recorder.RecordDispatched()
}
