// Package breaker wraps a SlotStore with a circuit breaker so a failing
// database backend sheds load fast instead of stacking up timeouts. Breaker
// rejections surface as domain.ErrUnavailable.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sony/gobreaker/v2"

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

// Store decorates an inner SlotStore with a shared circuit breaker. Domain
// outcomes (ErrNotFound, ErrSlotInUse, ErrUnauthorized) are not failures of
// the backend and do not count toward tripping.
type Store struct {
	inner   ports.SlotStore
	name    string
	breaker *gobreaker.CircuitBreaker[any]
}

// New wraps inner with a circuit breaker configured from cfg. The name
// identifies the backend in logs and health reports.
func New(inner ports.SlotStore, name string, cfg config.BreakerConfig, logger *slog.Logger) *Store {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainOutcome(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Store{inner: inner, name: name, breaker: cb}
}

// Init implements ports.SlotStore.
func (s *Store) Init(ctx context.Context, addr record.Address, data []byte, payer domain.Identity) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.inner.Init(ctx, addr, data, payer)
	})
	return err
}

// Read implements ports.SlotStore.
func (s *Store) Read(ctx context.Context, addr record.Address) ([]byte, error) {
	out, err := s.execute(func() (any, error) {
		return s.inner.Read(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// Write implements ports.SlotStore.
func (s *Store) Write(ctx context.Context, addr record.Address, data []byte) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.inner.Write(ctx, addr, data)
	})
	return err
}

// Close implements ports.SlotStore.
func (s *Store) Close(ctx context.Context, addr record.Address, closer domain.Identity) (uint64, error) {
	out, err := s.execute(func() (any, error) {
		return s.inner.Close(ctx, addr, closer)
	})
	if err != nil {
		return 0, err
	}
	return out.(uint64), nil
}

// execute runs fn through the breaker, mapping breaker rejections to
// domain.ErrUnavailable.
func (s *Store) execute(fn func() (any, error)) (any, error) {
	out, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnavailable, s.name, err)
	}
	return out, err
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return s.name
}

// HealthCheck reports backend availability based on the circuit breaker
// state. When the breaker is closed it defers to the inner store's own
// check, so connection failures still surface before the breaker trips.
func (s *Store) HealthCheck(ctx context.Context) error {
	switch state := s.breaker.State(); state {
	case gobreaker.StateClosed:
		if hc, ok := s.inner.(ports.HealthChecker); ok {
			return hc.HealthCheck(ctx)
		}
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", s.name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", s.name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", s.name, state)
	}
}

// isDomainOutcome reports whether err is a per-request domain result rather
// than a backend failure.
func isDomainOutcome(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrSlotInUse) ||
		errors.Is(err, domain.ErrUnauthorized)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
