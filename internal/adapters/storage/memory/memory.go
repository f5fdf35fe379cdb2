// Package memory provides an in-process SlotStore backed by a mutex-guarded
// map. It is the default backend for local development and the substrate for
// application-layer tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/platform/config"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

// Compile-time checks.
var (
	_ ports.SlotStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// slot is one occupied address: its payload plus the deposit held against it.
type slot struct {
	data    []byte
	deposit uint64
}

// Store is an in-memory SlotStore. The single mutex serializes all slot
// mutations, which trivially satisfies the no-torn-slot requirement.
type Store struct {
	mu    sync.RWMutex
	slots map[record.Address]slot
	rent  config.RentConfig
}

// New creates an empty in-memory store priced by rent.
func New(rent config.RentConfig) *Store {
	return &Store{
		slots: make(map[record.Address]slot),
		rent:  rent,
	}
}

// Init allocates the slot at addr, charging payer the deposit for its size.
func (s *Store) Init(_ context.Context, addr record.Address, data []byte, _ domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[addr]; ok {
		return fmt.Errorf("%w: address %s", domain.ErrSlotInUse, addr)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.slots[addr] = slot{
		data:    buf,
		deposit: s.rent.Base + s.rent.PerByte*uint64(len(data)),
	}
	return nil
}

// Read returns a copy of the slot contents at addr.
func (s *Store) Read(_ context.Context, addr record.Address) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[addr]
	if !ok {
		return nil, fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}

	buf := make([]byte, len(sl.data))
	copy(buf, sl.data)
	return buf, nil
}

// Write replaces the contents of an existing slot. The deposit is unchanged
// since slots are fixed-size.
func (s *Store) Write(_ context.Context, addr record.Address, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[addr]
	if !ok {
		return fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	sl.data = buf
	s.slots[addr] = sl
	return nil
}

// Close deallocates the slot and returns the deposit held against it. The
// address becomes immediately available for a future Init.
func (s *Store) Close(_ context.Context, addr record.Address, _ domain.Identity) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[addr]
	if !ok {
		return 0, fmt.Errorf("%w: address %s", domain.ErrNotFound, addr)
	}

	delete(s.slots, addr)
	return sl.deposit, nil
}

// Len returns the number of occupied slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory-store"
}

// HealthCheck implements ports.HealthChecker. The in-process store has no
// external dependency, so it only honors context cancellation.
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}
