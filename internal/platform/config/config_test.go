package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"UNIAGENDAS_ADDR", "UNIAGENDAS_ENV", "LOG_LEVEL", "REQUEST_TIMEOUT",
		"DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"PROTOCOL_MAX_ATTEMPTS", "PROTOCOL_RESERVATION_TTL", "DATED_PROTOCOL_PREFIX",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "UNIAGENDAS_TIMEZONE", "ADMIN_API_TOKEN",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "uniagendas.appointments", cfg.Kafka.Topic)
	assert.Equal(t, 5, cfg.Protocol.MaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Protocol.ReservationTTL)
	assert.Equal(t, "UNI", cfg.Protocol.DatedPrefix)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
	assert.Empty(t, cfg.AdminToken)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("UNIAGENDAS_ENV", "production")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PROTOCOL_MAX_ATTEMPTS", "8")
	t.Setenv("PROTOCOL_RESERVATION_TTL", "2h")
	t.Setenv("DATED_PROTOCOL_PREFIX", "HCU")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Protocol.MaxAttempts)
	assert.Equal(t, 2*time.Hour, cfg.Protocol.ReservationTTL)
	assert.Equal(t, "HCU", cfg.Protocol.DatedPrefix)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("UNIAGENDAS_TIMEZONE", "America/Atlantis")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "UNIAGENDAS_TIMEZONE")
	})

	t.Run("zero attempts", func(t *testing.T) {
		t.Setenv("PROTOCOL_MAX_ATTEMPTS", "0")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "PROTOCOL_MAX_ATTEMPTS")
	})
}
