// Package metadata defines the cluster metadata types carried by the
// replicated cache: brokers, topics, partitions, consumer groups and
// the per-broker throughput metrics scraped from each cluster.
package metadata

// ClusterID identifies one monitored Kafka cluster.
type ClusterID string

// BrokerID identifies one broker within a cluster.
type BrokerID int32

// TopicName identifies one topic within a cluster.
type TopicName string

// Broker is a single broker record in the brokers cache.
type Broker struct {
	ID       BrokerID `json:"id"`
	Hostname string   `json:"hostname"`
	Port     int32    `json:"port"`
	Rack     string   `json:"rack,omitempty"`
}

// Partition is a single partition record in the topics cache.
type Partition struct {
	ID       int32      `json:"id"`
	Leader   BrokerID   `json:"leader"`
	Replicas []BrokerID `json:"replicas"`
	ISR      []BrokerID `json:"isr"`
	Error    string     `json:"error,omitempty"`
}

// GroupMember is one member of a consumer group.
type GroupMember struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	ClientHost string `json:"client_host"`
}

// Group is the groups cache's value: a consumer group's state and members.
type Group struct {
	Name    string        `json:"name"`
	State   string        `json:"state"`
	Members []GroupMember `json:"members"`
}

// TopicRate is a (byte_rate, msg_rate) pair for one topic on one broker.
type TopicRate struct {
	ByteRate float64 `json:"byte_rate"`
	MsgRate  float64 `json:"msg_rate"`
}

// TotalTopicKey is the distinguished entry in BrokerMetrics.Topics that
// carries the broker-wide aggregate rate.
const TotalTopicKey = "__TOTAL__"

// BrokerMetrics is the metrics cache's value: per-topic throughput on one
// broker, plus a TotalTopicKey aggregate entry.
type BrokerMetrics struct {
	Topics map[TopicName]TopicRate `json:"topics"`
}
