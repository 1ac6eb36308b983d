package sqlstore

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// dialect captures the differences between the supported SQL backends.
// Queries are written with ? placeholders and rebound per dialect.
type dialect struct {
	name       string
	driverName string
	schema     []string
	like       string
	lockSuffix string
	numbered   bool
}

var sqliteDialect = dialect{
	name:       DriverSQLite,
	driverName: "sqlite3",
	schema:     sqliteSchema,
	like:       "LIKE",
}

var postgresDialect = dialect{
	name:       DriverPostgres,
	driverName: "pgx",
	schema:     postgresSchema,
	like:       "ILIKE",
	lockSuffix: " FOR UPDATE",
	numbered:   true,
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3":
		return sqliteDialect, nil
	case DriverPostgres, "pgx", "postgresql":
		return postgresDialect, nil
	}
	return dialect{}, errors.New("unsupported database driver: " + driver)
}

// rebind rewrites ? placeholders to $n for dialects with numbered parameters.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d dialect) isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
