// Package errs defines the sentinel error kinds shared across the
// replication log and cache layers (spec.md §7).
package errs

import "errors"

var (
	// ErrSerialization is returned when encoding a wrapped key or value fails.
	ErrSerialization = errors.New("serialization error")
	// ErrProduce is returned when the Kafka client rejects a send immediately.
	ErrProduce = errors.New("produce error")
	// ErrConsumerCreation is returned when a Kafka consumer cannot be built.
	ErrConsumerCreation = errors.New("consumer creation error")
	// ErrMetadataFetch is returned when topic/partition metadata cannot be fetched.
	ErrMetadataFetch = errors.New("metadata fetch error")
	// ErrDecode is returned when a log record's key or payload cannot be decoded.
	ErrDecode = errors.New("decode error")
	// ErrUnknownCacheName is returned by the aggregate for an unrecognized cache name.
	ErrUnknownCacheName = errors.New("unknown cache name")
	// ErrNoConsumer is returned by the watermark fanout when a cluster has no
	// registered consumer handle.
	ErrNoConsumer = errors.New("no consumer for cluster")
)
