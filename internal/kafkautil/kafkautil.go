// Package kafkautil holds small Kafka client helpers shared by the
// replication writer and reader, generalized from the teacher's
// pkg/kafka/util.go (itself shared across every service in that repo).
package kafkautil

import (
	"strings"
	"time"
)

const (
	// MaxPollWait bounds how long a partition reader blocks for a full batch.
	MaxPollWait = 1 * time.Second
	// MinFetchBytes is the minimum batch size a partition reader waits for;
	// 1 so replicas observe updates as soon as they are available.
	MinFetchBytes = 1
	// MaxFetchBytes is the maximum per-fetch batch size, matching the
	// replication topic's 10MB max message size.
	MaxFetchBytes = 10e6
)

// ParseBrokers parses a comma-separated broker list and trims whitespace.
func ParseBrokers(brokers string) []string {
	if brokers == "" {
		return nil
	}
	list := strings.Split(brokers, ",")
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	return list
}
