package slotblock

import (
	"errors"
	"time"

	"lounge-booking/internal/domain/slot"

	"github.com/google/uuid"
)

var ErrNonPositiveTTL = errors.New("slot block ttl must be positive")

// Block is a short-lived, non-authoritative hold on a slot during checkout.
// Expiry is passive: every reader compares expiresAt against an explicit now.
type Block struct {
	id          uuid.UUID
	stationID   uuid.UUID
	slot        slot.Slot
	expiresAt   time.Time
	isConfirmed bool
	createdAt   time.Time
}

func NewBlock(stationID uuid.UUID, s slot.Slot, now time.Time, ttl time.Duration) (*Block, error) {
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}
	return &Block{
		id:        uuid.New(),
		stationID: stationID,
		slot:      s,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}, nil
}

func ReconstructBlock(
	id, stationID uuid.UUID,
	s slot.Slot,
	expiresAt time.Time,
	isConfirmed bool,
	createdAt time.Time,
) *Block {
	return &Block{
		id:          id,
		stationID:   stationID,
		slot:        s,
		expiresAt:   expiresAt,
		isConfirmed: isConfirmed,
		createdAt:   createdAt,
	}
}

// IsActiveAt reports whether the hold still counts against other customers.
func (b *Block) IsActiveAt(now time.Time) bool {
	return !b.isConfirmed && b.expiresAt.After(now)
}

// Holds reports whether this block conflicts with a request for s at now.
// Matching is by exact slot equality, never general overlap.
func (b *Block) Holds(s slot.Slot, now time.Time) bool {
	return b.IsActiveAt(now) && b.slot.SameInterval(s)
}

func (b *Block) ID() uuid.UUID        { return b.id }
func (b *Block) StationID() uuid.UUID { return b.stationID }
func (b *Block) Slot() slot.Slot      { return b.slot }
func (b *Block) ExpiresAt() time.Time { return b.expiresAt }
func (b *Block) IsConfirmed() bool    { return b.isConfirmed }
func (b *Block) CreatedAt() time.Time { return b.createdAt }

// ClampTTL applies the default when ttl is unset and caps it at maxTTL.
func ClampTTL(ttl, def, maxTTL time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = def
	}
	if maxTTL > 0 && ttl > maxTTL {
		ttl = maxTTL
	}
	return ttl
}
