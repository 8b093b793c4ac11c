// Package cache implements the replicated, typed, concurrent map layered
// on top of the replication log, and the fixed five-map aggregate that
// demultiplexes updates arriving from the log.
package cache

import (
	"fmt"
	"sync"

	"kafkaview/internal/errs"
	"kafkaview/internal/replica"
	"kafkaview/internal/wire"
)

// Writer is the subset of *replica.Writer a Map needs: publish a value or
// a tombstone for one (cacheName, key) pair. Kept as an interface so Map
// is unit-testable without a live Kafka broker.
type Writer interface {
	WriteUpdate(cacheName string, key, value any) error
	WriteDelete(cacheName string, key any) error
}

// Map is a named, typed, concurrent key/value map replicated over one
// shared Writer. Multiple handles produced by Alias share the same
// underlying entries and Writer by reference (spec.md §3 "aliasing").
type Map[K comparable, V any] struct {
	name   string
	mu     *sync.RWMutex
	data   map[K]V
	writer Writer
}

// NewMap creates an empty, named replicated map backed by writer.
func NewMap[K comparable, V any](name string, writer Writer) *Map[K, V] {
	return &Map[K, V]{
		name:   name,
		mu:     &sync.RWMutex{},
		data:   make(map[K]V),
		writer: writer,
	}
}

// Name returns the map's immutable identifier.
func (m *Map[K, V]) Name() string {
	return m.name
}

// Alias returns another handle to the same logical map: same entries,
// same writer, no data copy. Writes through any handle are visible to
// reads through every handle.
func (m *Map[K, V]) Alias() *Map[K, V] {
	return &Map[K, V]{
		name:   m.name,
		mu:     m.mu,
		data:   m.data,
		writer: m.writer,
	}
}

// Insert publishes (name, key, value) to the log and, if that succeeds,
// applies it locally. The local apply is visible to subsequent Get calls
// on this handle and every alias before the log round-trip delivers the
// same update back (spec invariant I3). If the publish fails, local
// state is left unchanged and the error is returned.
func (m *Map[K, V]) Insert(key K, value V) error {
	if err := m.writer.WriteUpdate(m.name, key, value); err != nil {
		return fmt.Errorf("failed to write cache update: %w", err)
	}
	m.applySet(key, value)
	return nil
}

// Delete publishes a tombstone for key and, if that succeeds, removes it
// from the local map.
func (m *Map[K, V]) Delete(key K) error {
	if err := m.writer.WriteDelete(m.name, key); err != nil {
		return fmt.Errorf("failed to write cache delete: %w", err)
	}
	m.applyDelete(key)
	return nil
}

// ReceiveUpdate applies an update arriving from the replication log: a Set
// decodes the key and payload and replaces the entry; a Delete removes it.
func (m *Map[K, V]) ReceiveUpdate(update replica.Update) error {
	var key K
	if err := wire.DecodeValue(update.Key, &key); err != nil {
		return fmt.Errorf("%w: failed to parse key: %v", errs.ErrDecode, err)
	}

	switch update.Kind {
	case replica.Delete:
		m.applyDelete(key)
		return nil
	default:
		var value V
		if err := wire.DecodeValue(update.Payload, &value); err != nil {
			return fmt.Errorf("%w: failed to parse payload: %v", errs.ErrDecode, err)
		}
		m.applySet(key, value)
		return nil
	}
}

func (m *Map[K, V]) applySet(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *Map[K, V]) applyDelete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Get returns a snapshot copy of the value stored for key, if any. Never
// blocks other concurrent readers.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Keys returns a snapshot of the map's current keys.
func (m *Map[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// LockIter runs f over a read-only iteration of the map while holding a
// shared read lease, stopping early if f returns false. f must not call
// back into this map (or any alias of it): the lease is not reentrant and
// doing so deadlocks.
func (m *Map[K, V]) LockIter(f func(K, V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.data {
		if !f(k, v) {
			return
		}
	}
}

// Count returns the number of entries whose key satisfies pred, built on
// LockIter so it never materializes a full snapshot.
func (m *Map[K, V]) Count(pred func(K) bool) int {
	n := 0
	m.LockIter(func(k K, _ V) bool {
		if pred(k) {
			n++
		}
		return true
	})
	return n
}

// Entry pairs a key and value, returned by the FilterClone family.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// FilterClone returns a snapshot copy of every (key, value) pair whose key
// satisfies pred.
func (m *Map[K, V]) FilterClone(pred func(K) bool) []Entry[K, V] {
	out := make([]Entry[K, V], 0)
	m.LockIter(func(k K, v V) bool {
		if pred(k) {
			out = append(out, Entry[K, V]{Key: k, Value: v})
		}
		return true
	})
	return out
}

// FilterCloneK returns a snapshot copy of every key satisfying pred.
func (m *Map[K, V]) FilterCloneK(pred func(K) bool) []K {
	out := make([]K, 0)
	m.LockIter(func(k K, _ V) bool {
		if pred(k) {
			out = append(out, k)
		}
		return true
	})
	return out
}

// FilterCloneV returns a snapshot copy of every value whose key satisfies pred.
func (m *Map[K, V]) FilterCloneV(pred func(K) bool) []V {
	out := make([]V, 0)
	m.LockIter(func(k K, v V) bool {
		if pred(k) {
			out = append(out, v)
		}
		return true
	})
	return out
}
