package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/ourtrip/internal/codec"
	"github.com/pkordes/ourtrip/internal/domain"
)

// DefaultSlot is the key the trip list is stored under. It matches the
// localStorage key used by the browser app.
const DefaultSlot = "ourtrip-trips"

// TripRepo loads and saves the whole trip list.
// The service layer depends on this interface, not on a storage backend,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Load returns every stored trip. An absent or unreadable slot is not an
	// error: it loads as an empty list. Only backend failures are returned.
	Load(ctx context.Context) ([]domain.Trip, error)

	// Save replaces the stored trip list.
	Save(ctx context.Context, trips []domain.Trip) error
}

// kvTripRepo stores the encoded trip list in one KV slot.
type kvTripRepo struct {
	kv     KV
	slot   string
	logger *slog.Logger
}

// NewTripRepo constructs a TripRepo over kv. An empty slot selects DefaultSlot;
// a nil logger selects slog.Default().
func NewTripRepo(kv KV, slot string, logger *slog.Logger) TripRepo {
	if slot == "" {
		slot = DefaultSlot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &kvTripRepo{kv: kv, slot: slot, logger: logger}
}

// Load reads and decodes the slot.
func (r *kvTripRepo) Load(ctx context.Context) ([]domain.Trip, error) {
	text, err := r.kv.Get(ctx, r.slot)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Trip{}, nil
		}
		return nil, fmt.Errorf("repo.TripRepo.Load: %w", err)
	}

	trips, err := codec.Parse(text)
	if err != nil {
		r.logger.WarnContext(ctx, "stored trip list is unreadable; treating as empty",
			"slot", r.slot,
			"error", err,
		)
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Save encodes trips and overwrites the slot.
func (r *kvTripRepo) Save(ctx context.Context, trips []domain.Trip) error {
	text, err := codec.Encode(trips)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	if err := r.kv.Put(ctx, r.slot, text); err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return nil
}
