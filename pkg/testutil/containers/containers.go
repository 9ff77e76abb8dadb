//go:build integration

// Package containers starts the backing services the integration suites
// share: Postgres, Redis and Redpanda. Each starts on first use within a
// test binary and is removed by Ryuk when the binary exits. Suites are
// skipped when no Docker provider is reachable.
package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// lazy starts one container per test binary and remembers the outcome.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(t *testing.T, name string, start func(context.Context) (T, error)) T {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	l.once.Do(func() {
		l.val, l.err = start(context.Background())
	})
	if l.err != nil {
		t.Fatalf("start %s container: %v", name, l.err)
	}
	return l.val
}

var (
	sharedPostgres lazy[*PostgresContainer]
	sharedRedis    lazy[*RedisContainer]
	sharedKafka    lazy[*KafkaContainer]
)

// Postgres returns the shared, migrated Postgres instance.
func Postgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return sharedPostgres.get(t, "postgres", startPostgres)
}

// Redis returns the shared Redis instance.
func Redis(t *testing.T) *RedisContainer {
	t.Helper()
	return sharedRedis.get(t, "redis", startRedis)
}

// Kafka returns the shared Redpanda broker.
func Kafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return sharedKafka.get(t, "redpanda", startKafka)
}

// terminateOnError removes c when *err is set by the rest of a start func.
func terminateOnError(ctx context.Context, c testcontainers.Container, err *error) {
	if *err != nil && c != nil {
		_ = c.Terminate(ctx)
	}
}
