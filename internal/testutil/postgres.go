// Package testutil provides fixtures shared by storage and service tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/emberfall/internal/config"
	"github.com/cory-johannsen/emberfall/internal/storage/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresCreds = "ember"
	readyLog      = "database system is ready to accept connections"
)

// PostgresContainer is a disposable save database. Pool is connected but the
// schema is empty until ApplyMigrations runs.
type PostgresContainer struct {
	Pool   *postgres.Pool
	Config config.DatabaseConfig
}

// NewPostgresContainer starts a throwaway PostgreSQL server, connects a Pool
// to it and registers cleanup of both on t.
//
// Precondition: Docker must be available; the test is skipped under -short.
// Postcondition: Returns a connected container or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresCreds,
				"POSTGRES_PASSWORD": postgresCreds,
				"POSTGRES_DB":       postgresCreds,
			},
			// Postgres logs readiness once for the init server and once for the real one.
			WaitingFor: wait.ForLog(readyLog).WithOccurrence(2).WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v", postgresImage, err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	cfg := containerConfig(ctx, t, ctr)
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to %s:%d: %v", cfg.Host, cfg.Port, err)
	}
	t.Cleanup(pool.Close)

	t.Logf("save database ready at %s:%d [%s]", cfg.Host, cfg.Port, time.Since(start))
	return &PostgresContainer{Pool: pool, Config: cfg}
}

func containerConfig(ctx context.Context, t *testing.T, ctr testcontainers.Container) config.DatabaseConfig {
	t.Helper()
	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("resolving container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("resolving mapped port: %v", err)
	}
	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            postgresCreds,
		Password:        postgresCreds,
		Name:            postgresCreds,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
}

// ApplyMigrations runs the embedded save schema migrations to the latest version.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	version, err := pc.Pool.Migrate()
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("save schema at version %d", version)
}
