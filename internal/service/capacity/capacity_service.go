// Package capacity implements the flight weight reservation protocol: an
// optimistic check-and-write far from the capacity ceiling, and a short-lived
// distributed lock near it.
package capacity

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
)

type Store interface {
	GetCapacity(ctx context.Context, flightID string) (*domain.FlightCapacity, error)
	UpdateBookedWeight(ctx context.Context, flightID string, newWeightKg int) error
	CompareAndSetBookedWeight(ctx context.Context, flightID string, oldWeightKg, newWeightKg int) (bool, error)
}

type Locker interface {
	AcquireCapacityLock(ctx context.Context, flightID string, ttl time.Duration) (bool, error)
	ReleaseCapacityLock(ctx context.Context, flightID string) error
}

type Config struct {
	// ThresholdMarginKg is the buffer before the ceiling inside which a
	// reservation must hold the per-flight lock.
	ThresholdMarginKg int
	LockTTL           time.Duration
	LockRetries       int
	LockBackoff       time.Duration
}

func DefaultConfig() Config {
	return Config{
		ThresholdMarginKg: 100,
		LockTTL:           3 * time.Second,
		LockRetries:       5,
		LockBackoff:       50 * time.Millisecond,
	}
}

// safeWriteAttempts bounds the conditional-write loop on the unlocked path.
const safeWriteAttempts = 3

type Service struct {
	store  Store
	locker Locker
	cfg    Config
}

func NewService(store Store, locker Locker, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.ThresholdMarginKg <= 0 {
		cfg.ThresholdMarginKg = def.ThresholdMarginKg
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = def.LockTTL
	}
	if cfg.LockRetries <= 0 {
		cfg.LockRetries = def.LockRetries
	}
	if cfg.LockBackoff <= 0 {
		cfg.LockBackoff = def.LockBackoff
	}
	return &Service{store: store, locker: locker, cfg: cfg}
}

// Reserve decrements the flight's remaining capacity by weightKg, or fails
// without mutating anything. Returns domain.ErrFlightNotFound,
// *domain.InsufficientCapacityError (definitive rejection) or
// domain.ErrLockContention (caller may retry the whole booking later).
func (s *Service) Reserve(ctx context.Context, flightID string, weightKg int) error {
	if weightKg <= 0 {
		return errors.New("weight must be positive")
	}

	fc, err := s.store.GetCapacity(ctx, flightID)
	if err != nil {
		return err
	}

	remaining := fc.RemainingKg()
	if remaining < weightKg {
		return &domain.InsufficientCapacityError{FlightID: flightID, RequestedKg: weightKg, RemainingKg: remaining}
	}

	if remaining <= s.cfg.ThresholdMarginKg+weightKg {
		return s.reserveLocked(ctx, flightID, weightKg)
	}
	return s.reserveOptimistic(ctx, flightID, weightKg, fc)
}

// reserveLocked is the critical-zone path: near the ceiling a concurrent
// reader is likely holding a stale booked weight, so the write happens under
// the per-flight lock with a fresh read.
func (s *Service) reserveLocked(ctx context.Context, flightID string, weightKg int) error {
	acquired := false
	for attempt := 0; attempt < s.cfg.LockRetries; attempt++ {
		ok, err := s.locker.AcquireCapacityLock(ctx, flightID, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if ok {
			acquired = true
			break
		}
		if attempt < s.cfg.LockRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.LockBackoff):
			}
		}
	}
	if !acquired {
		return domain.ErrLockContention
	}
	defer func() {
		// The TTL is only a crash backstop; release failures are logged, never escalated.
		if err := s.locker.ReleaseCapacityLock(ctx, flightID); err != nil {
			log.Printf("release capacity lock for flight %s: %v", flightID, err)
		}
	}()

	fc, err := s.store.GetCapacity(ctx, flightID)
	if err != nil {
		return err
	}
	if remaining := fc.RemainingKg(); remaining < weightKg {
		return &domain.InsufficientCapacityError{FlightID: flightID, RequestedKg: weightKg, RemainingKg: remaining}
	}
	return s.store.UpdateBookedWeight(ctx, flightID, fc.BookedWeightKg+weightKg)
}

// reserveOptimistic is the safe-zone path. The write is conditional on the
// booked weight still matching the value read, re-reading on conflict.
func (s *Service) reserveOptimistic(ctx context.Context, flightID string, weightKg int, fc *domain.FlightCapacity) error {
	for attempt := 0; attempt < safeWriteAttempts; attempt++ {
		ok, err := s.store.CompareAndSetBookedWeight(ctx, flightID, fc.BookedWeightKg, fc.BookedWeightKg+weightKg)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		fc, err = s.store.GetCapacity(ctx, flightID)
		if err != nil {
			return err
		}
		if remaining := fc.RemainingKg(); remaining < weightKg {
			return &domain.InsufficientCapacityError{FlightID: flightID, RequestedKg: weightKg, RemainingKg: remaining}
		}
	}
	return domain.ErrLockContention
}
