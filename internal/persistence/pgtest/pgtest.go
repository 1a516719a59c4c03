// Package pgtest starts a disposable PostgreSQL for integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/persistence"
)

// EnvFlag enables the container backed tests when set to 1.
const EnvFlag = "DIRECTORY_INTEGRATION"

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// Pool returns a pool on a migrated database shared by the whole test run.
// The test is skipped unless EnvFlag is set.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv(EnvFlag) != "1" {
		t.Skipf("set %s=1 to run container backed tests", EnvFlag)
	}

	once.Do(func() {
		sharedDSN, initErr = startAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("pgtest: setup database: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, sharedDSN)
	if err != nil {
		t.Fatalf("pgtest: create pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func startAndMigrate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "directory",
				"POSTGRES_PASSWORD": "directory",
				"POSTGRES_DB":       "directory",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://directory:directory@%s:%s/directory?sslmode=disable", host, port.Port())

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return "", fmt.Errorf("sql open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("ping: %w", err)
	}
	if err := persistence.MigrateUp(ctx, db, zap.NewNop()); err != nil {
		return "", err
	}
	return dsn, nil
}
