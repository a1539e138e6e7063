//go:build integration

package migration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestMigrator_EmbeddedSchema(t *testing.T) {
	db := startPostgres(t)

	m, err := New(db, zaptest.NewLogger(t))
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)
	for _, table := range []string{"products", "product_variants", "orders", "order_items", "store_profiles", "profiles"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	t.Run("up again is a no-op", func(t *testing.T) {
		require.NoError(t, m.Up())
	})

	t.Run("singleton store profile", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO store_profiles (id, store_name) VALUES (1, 'Prakruthi')`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO store_profiles (id, store_name) VALUES (2, 'Other')`)
		assert.Error(t, err, "only id 1 is allowed")
	})

	t.Run("steps back one version", func(t *testing.T) {
		require.NoError(t, m.Steps(-1))
		version, _, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.False(t, tableExists(t, db, "store_profiles"))
		assert.True(t, tableExists(t, db, "orders"))
	})

	t.Run("goto and down", func(t *testing.T) {
		require.NoError(t, m.GoTo(3))
		assert.True(t, tableExists(t, db, "profiles"))

		require.NoError(t, m.Down())
		version, _, err := m.Version()
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.False(t, tableExists(t, db, "products"))
	})
}
