// Package sqlite provides a file-backed SlotStore using SQLite. It suits
// single-node deployments that need durability without a database server.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// The connection pool is capped at a single connection, so every statement
// runs serialized. Slot-level atomicity follows from SQLite's statement
// atomicity.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/platform/config"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

// Compile-time checks.
var (
	_ ports.SlotStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// Store is a SQLite-backed SlotStore.
type Store struct {
	db   *sql.DB
	rent config.RentConfig
}

// Open creates or opens the SQLite database at path, applies pragmas and the
// schema, and returns a Store priced by rent. Safe to call multiple times on
// the same path.
func Open(path string, rent config.RentConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, rent: rent}, nil
}

// Shutdown closes the database connection.
func (s *Store) Shutdown() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init allocates the slot at addr, charging payer the deposit for its size.
// The INSERT's conflict clause makes occupied-address detection atomic with
// the write itself.
func (s *Store) Init(ctx context.Context, addr record.Address, data []byte, payer domain.Identity) error {
	deposit := s.rent.Base + s.rent.PerByte*uint64(len(data))

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (address, data, deposit, payer) VALUES (?, ?, ?, ?)
		 ON CONFLICT (address) DO NOTHING`,
		addr.String(), data, deposit, payer.String(),
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
		`SELECT data FROM slots WHERE address = ?`, addr.String(),
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
		`UPDATE slots SET data = ? WHERE address = ?`, data, addr.String(),
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

// Close deallocates the slot and returns the deposit held against it. The
// DELETE ... RETURNING form keeps lookup and removal in one statement.
func (s *Store) Close(ctx context.Context, addr record.Address, _ domain.Identity) (uint64, error) {
	var deposit uint64
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM slots WHERE address = ? RETURNING deposit`, addr.String(),
	).Scan(&deposit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}
	if err != nil {
		return 0, fmt.Errorf("closing slot: %w", err)
	}
	return deposit, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite-store"
}

// HealthCheck implements ports.HealthChecker.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
