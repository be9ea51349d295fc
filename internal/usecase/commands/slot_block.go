package commands

import (
	"context"
	"log/slog"
	"time"

	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/slotblock"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateBlockParams struct {
	StationRefs []string
	Date        string
	StartTime   string
	EndTime     string
	// TTL of zero applies the configured default.
	TTL time.Duration
}

type CreateBlockResult struct {
	BlockIDs  []uuid.UUID
	ExpiresAt time.Time
}

type SlotBlockRepository interface {
	CreateMany(ctx context.Context, blocks []*slotblock.Block) error
	Confirm(ctx context.Context, stationIDs []uuid.UUID, s slot.Slot, now time.Time) (int64, error)
	Release(ctx context.Context, blockIDs []uuid.UUID) (int64, error)
}

type SlotBlockCommands interface {
	CreateBlock(ctx context.Context, params CreateBlockParams) (*CreateBlockResult, error)
	ConfirmBlocks(ctx context.Context, stationIDs []uuid.UUID, s slot.Slot) (int64, error)
	ReleaseBlocks(ctx context.Context, blockIDs []uuid.UUID) (int64, error)
}

type slotBlockUseCaseImpl struct {
	blockRepo    SlotBlockRepository
	availability queries.AvailabilityQueries
	clock        clock.Clock
	cfg          config.BookingConfig
	logger       *slog.Logger
}

func NewSlotBlockUseCase(
	blockRepo SlotBlockRepository,
	availability queries.AvailabilityQueries,
	clock clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) SlotBlockCommands {
	return &slotBlockUseCaseImpl{
		blockRepo:    blockRepo,
		availability: availability,
		clock:        clock,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateBlock inserts one hold per resolved station. Holds on the same slot may
// coexist; exclusion happens at commit time.
func (u *slotBlockUseCaseImpl) CreateBlock(ctx context.Context, params CreateBlockParams) (*CreateBlockResult, error) {
	s, err := slot.NewSlot(params.Date, params.StartTime, params.EndTime)
	if err != nil {
		return nil, &queries.ValidationError{
			Reason:   err.Error(),
			Required: queries.RequiredAvailabilityFields,
			Received: map[string]any{
				"station_id":   params.StationRefs,
				"booking_date": params.Date,
				"start_time":   params.StartTime,
				"end_time":     params.EndTime,
			},
		}
	}

	stations, err := u.availability.ResolveStations(ctx, params.StationRefs)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	ttl := slotblock.ClampTTL(params.TTL, u.cfg.SlotBlockTTL, u.cfg.SlotBlockMaxTTL)

	blocks := make([]*slotblock.Block, 0, len(stations))
	for _, st := range stations {
		b, err := slotblock.NewBlock(st.ID(), s, now, ttl)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		blocks = append(blocks, b)
	}

	if err := u.blockRepo.CreateMany(ctx, blocks); err != nil {
		return nil, errs.Storage(err, "create slot blocks")
	}

	ids := make([]uuid.UUID, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID())
	}

	u.logger.Debug("slot blocks created",
		slog.String("slot", s.Key()),
		slog.Int("count", len(ids)),
		slog.Duration("ttl", ttl))

	return &CreateBlockResult{BlockIDs: ids, ExpiresAt: now.Add(ttl)}, nil
}

// ConfirmBlocks marks matching unexpired holds as confirmed. Callers treat it as best-effort.
func (u *slotBlockUseCaseImpl) ConfirmBlocks(ctx context.Context, stationIDs []uuid.UUID, s slot.Slot) (int64, error) {
	n, err := u.blockRepo.Confirm(ctx, stationIDs, s, u.clock.Now())
	if err != nil {
		return 0, errs.Storage(err, "confirm slot blocks")
	}
	return n, nil
}

// ReleaseBlocks drops the caller's own unconfirmed holds when checkout is abandoned.
func (u *slotBlockUseCaseImpl) ReleaseBlocks(ctx context.Context, blockIDs []uuid.UUID) (int64, error) {
	if len(blockIDs) == 0 {
		return 0, nil
	}
	n, err := u.blockRepo.Release(ctx, blockIDs)
	if err != nil {
		return 0, errs.Storage(err, "release slot blocks")
	}
	return n, nil
}
