package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Scoring.MaxRetries)
	assert.Equal(t, float64(100), cfg.Scoring.ProfitScaleMax)
	assert.Equal(t, "pulsemarket.audit.events", cfg.Kafka.AuditTopic)
	assert.Empty(t, cfg.Kafka.Seeds)
	assert.Equal(t, 15*time.Minute, cfg.Redis.SnapshotTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PULSEMARKET_ADDR", ":9090")
	t.Setenv("KAFKA_SEEDS", "broker1:9092, broker2:9092")
	t.Setenv("SCORING_MAX_RETRIES", "5")
	t.Setenv("ORACLE_TIMEOUT", "2s")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Seeds)
	assert.Equal(t, 5, cfg.Scoring.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Oracles.Timeout)
}

func TestFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCORING_MAX_RETRIES", "lots")
	t.Setenv("ORACLE_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.Scoring.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Oracles.Timeout)
}
