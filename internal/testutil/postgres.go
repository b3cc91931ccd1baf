// Package testutil starts a throwaway Postgres for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"sushi-orders/internal/migrate"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// NewPool returns a migrated pool against TEST_DB_DSN, or against a Postgres
// container shared by the test binary when the variable is unset. Tables are
// truncated before returning.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		containerOnce.Do(func() {
			containerDSN, containerErr = startContainer(context.Background())
		})
		if containerErr != nil {
			t.Fatalf("start postgres container: %v", containerErr)
		}
		dsn = containerDSN
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Reset(t, pool)
	return pool
}

// Reset empties every table and restarts the invoice counter.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	if _, err := pool.Exec(ctx, `TRUNCATE invoices, order_lines, orders, cart_lines, carts, products, ordering_window RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE invoice_counter SET last_value = 0`); err != nil {
		t.Fatalf("reset invoice counter: %v", err)
	}
}

func startContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "sushi",
			"POSTGRES_PASSWORD": "sushi",
			"POSTGRES_DB":       "sushi_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", err
	}

	host, err := pg.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("postgres://sushi:sushi@%s:%s/sushi_test?sslmode=disable", host, port.Port()), nil
}
