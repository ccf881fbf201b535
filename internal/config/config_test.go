package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, "redis", cfg.EventPublisher)
	assert.Equal(t, int64(1000000000), cfg.EntryFee)
	assert.Equal(t, 10*time.Minute, cfg.RoundInterval)
	assert.Equal(t, 3, cfg.OracleConfirmations)
	assert.Equal(t, 15, cfg.UpkeepIntervalSec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("EVENT_PUBLISHER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ENTRY_FEE_NANOTON", "500")
	t.Setenv("ROUND_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "kafka", cfg.EventPublisher)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, int64(500), cfg.EntryFee)
	assert.Equal(t, time.Hour, cfg.RoundInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("unknown storage backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "etcd")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown publisher", func(t *testing.T) {
		t.Setenv("EVENT_PUBLISHER", "rabbitmq")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive entry fee", func(t *testing.T) {
		t.Setenv("ENTRY_FEE_NANOTON", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive interval", func(t *testing.T) {
		t.Setenv("ROUND_INTERVAL", "-5m")
		_, err := Load()
		assert.Error(t, err)
	})
}
