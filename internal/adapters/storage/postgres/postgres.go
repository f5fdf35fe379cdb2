// Package postgres provides a PostgreSQL-backed SlotStore using the pgx
// driver through database/sql, with schema migrations managed by goose.
// It is the backend for multi-node deployments.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/platform/config"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Compile-time checks.
var (
	_ ports.SlotStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Store is a PostgreSQL-backed SlotStore.
type Store struct {
	db   *sql.DB
	rent config.RentConfig
}

// Open connects to PostgreSQL with the given DSN, runs the embedded schema
// migrations, and returns a Store priced by rent.
func Open(ctx context.Context, dsn string, rent config.RentConfig) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, rent)
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

// New wraps an existing connection without running migrations. Used by tests
// that substitute a mocked *sql.DB.
func New(db *sql.DB, rent config.RentConfig) *Store {
	return &Store{db: db, rent: rent}
}

// RunMigrations applies the embedded goose migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, "migrations")
}

// Shutdown closes the database connection pool.
func (s *Store) Shutdown() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init allocates the slot at addr, charging payer the deposit for its size.
// ON CONFLICT DO NOTHING makes the occupied check atomic with the insert, so
// concurrent creates at one address leave exactly one winner.
func (s *Store) Init(ctx context.Context, addr record.Address, data []byte, payer domain.Identity) error {
	deposit := s.rent.Base + s.rent.PerByte*uint64(len(data))

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (address, data, deposit, payer) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (address) DO NOTHING`,
		addr.String(), data, int64(deposit), payer.String(),
	)
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: address %s", domain.ErrSlotInUse, addr)
	}
	return nil
}

// Read returns the slot contents at addr.
func (s *Store) Read(ctx context.Context, addr record.Address) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM slots WHERE address = $1`, addr.String(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot: %w", err)
	}
	return data, nil
}

// Write replaces the contents of an existing slot.
func (s *Store) Write(ctx context.Context, addr record.Address, data []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE slots SET data = $1 WHERE address = $2`, data, addr.String(),
	)
	if err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}
	return nil
}

// Close deallocates the slot and returns the deposit held against it.
// DELETE ... RETURNING keeps lookup and removal in one round trip.
func (s *Store) Close(ctx context.Context, addr record.Address, _ domain.Identity) (uint64, error) {
	var deposit int64
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM slots WHERE address = $1 RETURNING deposit`, addr.String(),
	).Scan(&deposit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}
	if err != nil {
		return 0, fmt.Errorf("closing slot: %w", err)
	}
	return uint64(deposit), nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "postgres-store"
}

// HealthCheck implements ports.HealthChecker.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
