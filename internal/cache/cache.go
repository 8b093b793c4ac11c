package cache

import (
	"fmt"
	"log/slog"

	"kafkaview/internal/errs"
	"kafkaview/internal/metadata"
	"kafkaview/internal/replica"
)

// Names of the five caches, used both as the literal map keys dispatched
// on and as the name each Map publishes under on the replication log.
const (
	NameMetrics = "metrics"
	NameOffsets = "offsets"
	NameBrokers = "brokers"
	NameTopics  = "topics"
	NameGroups  = "groups"
)

// MetricsKey, OffsetsKey, TopicsKey and GroupsKey are the key shapes for
// their respective caches (spec.md §3 data model table). The brokers
// cache is keyed by a plain metadata.ClusterID.
type MetricsKey struct {
	Cluster metadata.ClusterID `json:"cluster"`
	Broker  metadata.BrokerID  `json:"broker"`
}

type OffsetsKey struct {
	Cluster metadata.ClusterID `json:"cluster"`
	Group   string             `json:"group"`
	Topic   metadata.TopicName `json:"topic"`
}

type TopicsKey struct {
	Cluster metadata.ClusterID `json:"cluster"`
	Topic   metadata.TopicName `json:"topic"`
}

type GroupsKey struct {
	Cluster metadata.ClusterID `json:"cluster"`
	Group   string             `json:"group"`
}

// MetricsMap, OffsetsMap, BrokersMap, TopicsMap and GroupsMap are the five
// named replicated maps spec.md §3 names.
type (
	MetricsMap = Map[MetricsKey, metadata.BrokerMetrics]
	OffsetsMap = Map[OffsetsKey, []int64]
	BrokersMap = Map[metadata.ClusterID, []metadata.Broker]
	TopicsMap  = Map[TopicsKey, []metadata.Partition]
	GroupsMap  = Map[GroupsKey, metadata.Group]
)

// Cache is the fixed aggregate of five named replicated maps. It is the
// update receiver the replica reader dispatches decoded log records to.
type Cache struct {
	Metrics *MetricsMap
	Offsets *OffsetsMap
	Brokers *BrokersMap
	Topics  *TopicsMap
	Groups  *GroupsMap
}

// New constructs the five maps, all sharing writer.
func New(writer Writer) *Cache {
	return &Cache{
		Metrics: NewMap[MetricsKey, metadata.BrokerMetrics](NameMetrics, writer),
		Offsets: NewMap[OffsetsKey, []int64](NameOffsets, writer),
		Brokers: NewMap[metadata.ClusterID, []metadata.Broker](NameBrokers, writer),
		Topics:  NewMap[TopicsKey, []metadata.Partition](NameTopics, writer),
		Groups:  NewMap[GroupsKey, metadata.Group](NameGroups, writer),
	}
}

// Alias returns an aggregate of aliased maps, suitable for sharing with
// request-handling workers without copying any entry.
func (c *Cache) Alias() *Cache {
	return &Cache{
		Metrics: c.Metrics.Alias(),
		Offsets: c.Offsets.Alias(),
		Brokers: c.Brokers.Alias(),
		Topics:  c.Topics.Alias(),
		Groups:  c.Groups.Alias(),
	}
}

// ReceiveUpdate demultiplexes by cache name and forwards to the matching
// map. An unknown name is logged and returned as ErrUnknownCacheName; the
// caller (the replica reader) logs it and continues without aborting.
func (c *Cache) ReceiveUpdate(cacheName string, update replica.Update) error {
	switch cacheName {
	case NameMetrics:
		return c.Metrics.ReceiveUpdate(update)
	case NameOffsets:
		return c.Offsets.ReceiveUpdate(update)
	case NameBrokers:
		return c.Brokers.ReceiveUpdate(update)
	case NameTopics:
		return c.Topics.ReceiveUpdate(update)
	case NameGroups:
		return c.Groups.ReceiveUpdate(update)
	default:
		slog.Warn("update for unknown cache name", "cache", cacheName)
		return fmt.Errorf("%w: %s", errs.ErrUnknownCacheName, cacheName)
	}
}
