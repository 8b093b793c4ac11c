package config

import (
	"os"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				KafkaBrokers:          "localhost:9092",
				ReplicationTopic:      "kafkaview.cache",
				RedisAddr:             "localhost:6379",
				MetricsReportInterval: 30 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "empty kafka brokers",
			config: &Config{
				ReplicationTopic:      "kafkaview.cache",
				MetricsReportInterval: 30 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "empty replication topic",
			config: &Config{
				KafkaBrokers:          "localhost:9092",
				MetricsReportInterval: 30 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "zero report interval",
			config: &Config{
				KafkaBrokers:     "localhost:9092",
				ReplicationTopic: "kafkaview.cache",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	const key = "KAFKAVIEW_TEST_ENV_VAR"

	os.Unsetenv(key)
	if got := GetEnvOrDefault(key, "fallback"); got != "fallback" {
		t.Errorf("GetEnvOrDefault() = %q, want %q", got, "fallback")
	}

	os.Setenv(key, "override")
	defer os.Unsetenv(key)
	if got := GetEnvOrDefault(key, "fallback"); got != "override" {
		t.Errorf("GetEnvOrDefault() = %q, want %q", got, "override")
	}
}
