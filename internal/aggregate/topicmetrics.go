// Package aggregate implements read-side derived views over the cache's
// five maps: supplemented from original_source/src/web_server/api.rs,
// whose HTTP handlers are out of scope but whose aggregation logic
// (building a per-topic throughput lookup, joining groups with stored
// offsets) is exactly the kind of derived computation spec.md §4.4 says
// lock_iter exists to support. No HTTP request/response shape lives here.
package aggregate

import (
	"kafkaview/internal/cache"
	"kafkaview/internal/metadata"
)

// TopicMetrics maps topic name to its aggregate (byte_rate, msg_rate)
// across every broker in the cluster.
type TopicMetrics map[metadata.TopicName]metadata.TopicRate

// BuildTopicMetrics sums the per-topic rate reported by every broker in
// brokers, reading each broker's metrics.BrokerMetrics entry from the
// metrics cache. A broker with no metrics entry yet contributes nothing.
func BuildTopicMetrics(clusterID metadata.ClusterID, brokers []metadata.Broker, metrics *cache.MetricsMap) TopicMetrics {
	out := make(TopicMetrics)
	for _, b := range brokers {
		bm, ok := metrics.Get(cache.MetricsKey{Cluster: clusterID, Broker: b.ID})
		if !ok {
			continue
		}
		for topic, rate := range bm.Topics {
			if topic == metadata.TopicName(metadata.TotalTopicKey) {
				continue
			}
			agg := out[topic]
			agg.ByteRate += rate.ByteRate
			agg.MsgRate += rate.MsgRate
			out[topic] = agg
		}
	}
	return out
}
