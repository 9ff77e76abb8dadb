//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"uniagendas/internal/platform/config"
	"uniagendas/internal/platform/database"
)

// schedulingTables lists every table the migrations create, children first.
var schedulingTables = []string{"appointments", "doctors", "patients"}

// PostgresContainer is a Postgres 18 instance with the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	Pool      *database.Pool
	DB        *sql.DB
}

func startPostgres(ctx context.Context) (pc *PostgresContainer, err error) {
	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("uniagendas_test"),
		postgres.WithUsername("uniagendas"),
		postgres.WithPassword("uniagendas_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if container != nil {
		defer terminateOnError(ctx, container, &err)
	}
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("connection string: %w", err)
	}
	pool, err := database.Open(ctx, config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, database.WithConnectRetry(10*time.Second))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(pool.DB()); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		Pool:      pool,
		DB:        pool.DB(),
	}, nil
}

// TruncateAll empties every scheduling table in one statement.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	query := "TRUNCATE TABLE "
	for i, table := range schedulingTables {
		if i > 0 {
			query += ", "
		}
		query += table
	}
	if _, err := p.DB.ExecContext(ctx, query+" CASCADE"); err != nil {
		return fmt.Errorf("truncate scheduling tables: %w", err)
	}
	return nil
}
