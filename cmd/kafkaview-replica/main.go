package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kafkaview/internal/cache"
	"kafkaview/internal/config"
	"kafkaview/internal/kafkautil"
	"kafkaview/internal/metadata"
	"kafkaview/internal/metrics"
	"kafkaview/internal/replica"
	"kafkaview/internal/watermark"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := &config.Config{}
	flag.StringVar(&cfg.KafkaBrokers, "kafka-brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
	flag.StringVar(&cfg.ReplicationTopic, "replication-topic", "kafkaview.cache", "Kafka topic backing the replicated cache")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "localhost:6379", "Redis server address for ambient health reporting")
	flag.DurationVar(&cfg.MetricsReportInterval, "metrics-report-interval", metrics.DefaultReportInterval, "Interval for reporting replica health to Redis")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("starting kafkaview replica",
		"kafka_brokers", cfg.KafkaBrokers,
		"replication_topic", cfg.ReplicationTopic,
		"redis_addr", cfg.RedisAddr,
		"metrics_report_interval", cfg.MetricsReportInterval,
	)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	brokers := kafkautil.ParseBrokers(cfg.KafkaBrokers)

	// Redis is used only for ambient health reporting; a replica with no
	// reachable Redis still serves the cache, it just cannot report health.
	var redisClient = connectRedisOrNil(ctx, cfg.RedisAddr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	writer, err := replica.NewWriter(brokers, cfg.ReplicationTopic)
	if err != nil {
		slog.Error("failed to create replication writer", "error", err)
		os.Exit(1)
	}
	defer writer.Close()

	reader, err := replica.NewReader(brokers, cfg.ReplicationTopic)
	if err != nil {
		slog.Error("failed to create replication reader", "error", err)
		os.Exit(1)
	}
	defer reader.Close()

	collector := metrics.NewCollector(reader.ID(), redisClient)
	collector.Start(ctx)
	defer collector.Stop()
	writer.SetRecorder(collector)
	reader.SetRecorder(collector)

	c := cache.New(writer)

	// The consumer registry is populated by an external collaborator in
	// production (one entry per monitored cluster); here a single
	// cluster's querier is registered against the same brokers the
	// replication log lives on, enough to demonstrate the fanout.
	registry := watermark.NewRegistry()
	registry.Register(metadata.ClusterID("default"), watermark.NewKafkaQuerier(brokers))

	slog.Info("loading replicated cache state from replication log")
	go func() {
		if err := reader.LoadState(ctx, c); err != nil {
			slog.Error("replication reader stopped", "error", err)
		}
	}()

	go runWatermarkFanoutLoop(ctx, registry, c)

	<-ctx.Done()
	slog.Info("kafkaview replica stopped")
}

func connectRedisOrNil(ctx context.Context, addr string) *redis.Client {
	client, err := metrics.ConnectRedis(ctx, addr)
	if err != nil {
		slog.Warn("failed to connect to redis, health reporting disabled", "error", err)
		return nil
	}
	return client
}

// runWatermarkFanoutLoop periodically exercises the bounded-parallelism
// watermark lookup against every topic/partition the topics cache has
// observed, logging how many pairs were queried and how many results came
// back; the watermark values themselves are not logged.
func runWatermarkFanoutLoop(ctx context.Context, registry *watermark.Registry, c *cache.Cache) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	cluster := metadata.ClusterID("default")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var pairs []watermark.TopicPartition
			c.Topics.LockIter(func(key cache.TopicsKey, partitions []metadata.Partition) bool {
				if key.Cluster != cluster {
					return true
				}
				for _, p := range partitions {
					pairs = append(pairs, watermark.TopicPartition{Topic: key.Topic, Partition: int32(p.ID)})
				}
				return true
			})
			if len(pairs) == 0 {
				continue
			}

			results, err := watermark.Fetch(ctx, registry, cluster, pairs)
			if err != nil {
				slog.Warn("watermark fanout failed", "error", err)
				continue
			}
			slog.Info("watermark fanout complete", "pairs", len(pairs), "results", len(results))
		}
	}
}
