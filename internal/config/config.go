// Package config provides configuration parsing and validation for the
// kafkaview-replica binary, grounded on
// services/evaluator/internal/config/config.go's Config+Validate shape.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration parameters for a cache replica process.
type Config struct {
	KafkaBrokers          string
	ReplicationTopic      string
	RedisAddr             string
	MetricsReportInterval time.Duration
}

// Validate checks that all required configuration fields are set and
// have valid values.
func (c *Config) Validate() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.ReplicationTopic == "" {
		return fmt.Errorf("replication-topic cannot be empty")
	}
	if c.MetricsReportInterval <= 0 {
		return fmt.Errorf("metrics-report-interval must be > 0")
	}
	return nil
}

// GetEnvOrDefault returns the environment variable value or a default if
// not set, matching the teacher's pkg/shared.GetEnvOrDefault.
func GetEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
