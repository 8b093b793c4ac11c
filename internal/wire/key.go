// Package wire implements the physical encoding of log records: the
// wrapped key that gives every named cache its own keyspace on the
// shared replication topic, and the value envelope.
//
// Encoding is plain encoding/json, the teacher's own serialization idiom
// for every wire structure (see services/evaluator/internal/events);
// field order in a fixed-shape Go struct is stable across processes, so
// two independent encodes of the same logical (cache_name, key) produce
// byte-identical physical keys (spec invariant I1).
package wire

import "encoding/json"

// Key is the physical key on the replication log: a cache name paired
// with the canonical encoding of a user key. Two keys compare equal iff
// both fields compare equal, so distinct cache names never collide
// (spec invariant I2).
type Key struct {
	CacheName string `json:"cache_name"`
	UserKey   []byte `json:"user_key"`
}

// EncodeValue serializes an arbitrary user key or value to its canonical
// wire representation.
func EncodeValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeValue parses the canonical wire representation of a value into v.
func DecodeValue(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// EncodeKey builds the physical log key for (cacheName, key). key must be
// JSON-serializable; typically a fixed tuple of primitives (cluster id,
// broker id, topic name, ...).
func EncodeKey(cacheName string, key any) ([]byte, error) {
	userKey, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Key{CacheName: cacheName, UserKey: userKey})
}

// DecodeKey splits a physical log key back into its cache name and the
// still-encoded user key bytes. The caller decodes UserKey into its
// concrete K with DecodeValue once it knows which cache the name selects.
func DecodeKey(physical []byte) (Key, error) {
	var k Key
	if err := json.Unmarshal(physical, &k); err != nil {
		return Key{}, err
	}
	return k, nil
}
