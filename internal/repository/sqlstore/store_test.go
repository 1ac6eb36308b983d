package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"foodshare-service/internal/repository"
	"foodshare-service/internal/repository/repotest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "foodshare.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	repotest.RunStoreSuite(t, newSQLiteStore)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "", zap.NewNop())
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newSQLiteStore(t).(*Store)

	assert.NoError(t, store.Migrate(context.Background()))
	assert.Equal(t, DriverSQLite, store.Driver())
}

func TestRebind(t *testing.T) {
	query := `SELECT id FROM food_listings WHERE id = ? AND version = ? AND quantity >= ?`

	assert.Equal(t, query, sqliteDialect.rebind(query))
	assert.Equal(t,
		`SELECT id FROM food_listings WHERE id = $1 AND version = $2 AND quantity >= $3`,
		postgresDialect.rebind(query),
	)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, sqliteDialect.isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, sqliteDialect.isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}))
	assert.True(t, postgresDialect.isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, postgresDialect.isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, postgresDialect.isUniqueViolation(errors.New("duplicate")))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_today`, escapeLike("50% off_today"))
}
