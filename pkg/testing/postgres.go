package testing

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"

	"github.com/2beens/guildsite/internal/db"
)

const testDBName = "guild_test"

// StartPostgres runs a throwaway postgres container, waits until it accepts
// connections and creates the guild schema. The container is removed on test cleanup.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dockerPool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not create new dockertest pool")
	require.NoError(t, dockerPool.Client.Ping(), "could not ping dockertest pool")
	dockerPool.MaxWait = time.Minute

	pgResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err, "dockerpool run postgres")
	t.Cleanup(func() {
		if err := dockerPool.Purge(pgResource); err != nil {
			t.Logf("postgres teardown: %s", err)
		}
		dockerPool.Client.HTTPClient.CloseIdleConnections()
	})

	params := db.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     pgResource.GetPort("5432/tcp"),
		DBName:     testDBName,
		DBUser:     "postgres",
		DBPassword: "postgres",
		SSLMode:    "disable",
	}

	// lib/pq is only used to wait for the container, the code under test runs on pgx
	require.NoError(t, dockerPool.Retry(func() error {
		sqlDB, err := sql.Open("postgres", params.ConnString())
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	}), "wait for postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewDBPool(ctx, params)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.EnsureSchema(ctx, pool))
	return pool
}

// TruncateAll clears all guild tables between tests.
func TruncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE admin, membership_application, feedback;`)
	require.NoError(t, err, fmt.Sprintf("truncate tables in %s", testDBName))
}
