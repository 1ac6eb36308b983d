// Package sqlstore implements repository.Store on database/sql for sqlite and postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"foodshare-service/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is a repository.Store backed by a SQL database.
type Store struct {
	db      *sql.DB
	q       querier
	dialect dialect
	logger  *zap.Logger
	inTx    bool
}

// Open connects to the database and applies the schema.
//
// SQLite runs with a single connection so that every write is serialised (single
// writer); postgres uses a regular pool and row locks.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	if d.name == DriverSQLite {
		dsn = dsn + "?_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000"
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.name == DriverSQLite {
		db.SetMaxOpenConns(1) // Single writer
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, q: db, dialect: d, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Database connected", zap.String("driver", d.name))
	return s, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Driver returns the dialect name, "sqlite" or "postgres".
func (s *Store) Driver() string {
	return s.dialect.name
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{s}
}

func (s *Store) Restaurants() repository.RestaurantRepository {
	return &restaurantRepository{s}
}

func (s *Store) Listings() repository.ListingRepository {
	return &listingRepository{s}
}

func (s *Store) Requests() repository.RequestRepository {
	return &requestRepository{s}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{s}
}

// WithinTx implements repository.Store
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Store{db: s.db, q: tx, dialect: s.dialect, logger: s.logger, inTx: true}
	if err := fn(ctx, txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// execAffecting runs a write and reports how many rows it touched.
func (s *Store) execAffecting(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// count runs a COUNT(*) query.
func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var total int
	if err := s.queryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// utc normalises timestamps before they are written, so stored values compare
// consistently on backends that keep them as text.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// where accumulates AND-ed conditions and their arguments.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	out := " WHERE " + w.conds[0]
	for _, c := range w.conds[1:] {
		out += " AND " + c
	}
	return out
}
