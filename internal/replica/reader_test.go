package replica

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"kafkaview/internal/errs"
	"kafkaview/internal/wire"
)

func TestNewReader_Validation(t *testing.T) {
	tests := []struct {
		name    string
		brokers []string
		topic   string
		wantErr bool
	}{
		{"valid", []string{"localhost:9092"}, "kafkaview.cache", false},
		{"no brokers", nil, "kafkaview.cache", true},
		{"empty topic", []string{"localhost:9092"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.brokers, tt.topic)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewReader() expected error, got nil")
				}
				if !errors.Is(err, errs.ErrConsumerCreation) {
					t.Errorf("NewReader() error = %v, want errs.ErrConsumerCreation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewReader() unexpected error: %v", err)
			}
			if r.ID() == "" {
				t.Error("NewReader() produced an empty instance id")
			}
		})
	}
}

func TestNewReader_UniqueID(t *testing.T) {
	a, err := NewReader([]string{"localhost:9092"}, "kafkaview.cache")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	b, err := NewReader([]string{"localhost:9092"}, "kafkaview.cache")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if a.ID() == b.ID() {
		t.Error("two readers got the same instance id")
	}
}

type fakeReceiver struct {
	received []receivedUpdate
}

type receivedUpdate struct {
	cacheName string
	update    Update
}

func (f *fakeReceiver) ReceiveUpdate(cacheName string, update Update) error {
	f.received = append(f.received, receivedUpdate{cacheName: cacheName, update: update})
	return nil
}

// TestReader_DispatchDecodesWrappedKey exercises the same wrapped-key
// unwrapping dispatch does on a real Kafka message, without needing a
// live broker: it builds a physical key the way the writer would and
// checks dispatch hands the receiver the unwrapped cache name as a Set
// update.
func TestReader_DispatchDecodesWrappedKey(t *testing.T) {
	r, err := NewReader([]string{"localhost:9092"}, "kafkaview.cache")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	physicalKey, err := wire.EncodeKey("metrics", "user-key")
	if err != nil {
		t.Fatalf("EncodeKey() error = %v", err)
	}
	payload, err := wire.EncodeValue(42)
	if err != nil {
		t.Fatalf("EncodeValue() error = %v", err)
	}

	receiver := &fakeReceiver{}
	rec := &countingRecorder{}
	r.SetRecorder(rec)

	r.dispatch(kafka.Message{Key: physicalKey, Value: payload}, receiver)

	if len(receiver.received) != 1 {
		t.Fatalf("receiver got %d updates, want 1", len(receiver.received))
	}
	got := receiver.received[0]
	if got.cacheName != "metrics" {
		t.Errorf("cacheName = %q, want %q", got.cacheName, "metrics")
	}
	if got.update.Kind != Set {
		t.Errorf("update.Kind = %v, want Set", got.update.Kind)
	}
	if rec.dispatched != 1 {
		t.Errorf("recorder.dispatched = %d, want 1", rec.dispatched)
	}
}

func TestReader_DispatchTombstoneIsDelete(t *testing.T) {
	r, err := NewReader([]string{"localhost:9092"}, "kafkaview.cache")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	physicalKey, err := wire.EncodeKey("metrics", "user-key")
	if err != nil {
		t.Fatalf("EncodeKey() error = %v", err)
	}

	receiver := &fakeReceiver{}
	r.dispatch(kafka.Message{Key: physicalKey, Value: nil}, receiver)

	if len(receiver.received) != 1 || receiver.received[0].update.Kind != Delete {
		t.Fatalf("expected one Delete update, got %+v", receiver.received)
	}
}

func TestReader_DispatchMalformedKeyIsSkipped(t *testing.T) {
	r, err := NewReader([]string{"localhost:9092"}, "kafkaview.cache")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	rec := &countingRecorder{}
	r.SetRecorder(rec)

	receiver := &fakeReceiver{}
	r.dispatch(kafka.Message{Key: []byte("not json"), Value: []byte("x")}, receiver)

	if len(receiver.received) != 0 {
		t.Error("malformed key should not reach the receiver")
	}
	if rec.decodeErrs != 1 {
		t.Errorf("recorder.decodeErrs = %d, want 1", rec.decodeErrs)
	}
}
