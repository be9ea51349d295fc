package outbox

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/infra/repository"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Store is the outbox table as the relay uses it, bound to one transaction.
type Store interface {
	FetchDue(ctx context.Context, now time.Time, limit int) ([]repository.OutboxRecord, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string, retryAt time.Time, maxAttempts int) error
}

type Transactor interface {
	WithinDB(ctx context.Context, fn func(ctx context.Context, q db.DBTX) error) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay drains queued outbox events to Kafka, one topic per event type.
// Booking confirmations and reconciliation escalations both travel this way.
type Relay struct {
	tx        Transactor
	newStore  func(q db.DBTX) Store
	writer    MessageWriter
	clock     clock.Clock
	logger    *slog.Logger
	pollEvery time.Duration
	batchSize int
	maxTries  int
}

func NewRelay(tx Transactor, writer MessageWriter, clk clock.Clock, logger *slog.Logger, cfg config.KafkaConfig) *Relay {
	if cfg.OutboxPollEvery <= 0 {
		cfg.OutboxPollEvery = 2 * time.Second
	}
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 50
	}
	if cfg.OutboxMaxTries <= 0 {
		cfg.OutboxMaxTries = 10
	}
	return &Relay{
		tx:        tx,
		newStore:  func(q db.DBTX) Store { return repository.NewOutboxRepository(q) },
		writer:    writer,
		clock:     clk,
		logger:    logger,
		pollEvery: cfg.OutboxPollEvery,
		batchSize: cfg.OutboxBatchSize,
		maxTries:  cfg.OutboxMaxTries,
	}
}

// WithStoreFactory swaps the table access, for tests.
func (r *Relay) WithStoreFactory(f func(q db.DBTX) Store) *Relay {
	r.newStore = f
	return r
}

// NewKafkaWriter returns a nil writer when no brokers are configured.
func NewKafkaWriter(cfg config.KafkaConfig) MessageWriter {
	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func SplitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (r *Relay) Run(ctx context.Context) {
	if r.writer == nil {
		r.logger.Warn("outbox relay disabled (no kafka brokers configured); events stay queued")
		return
	}
	defer func() {
		if err := r.writer.Close(); err != nil {
			r.logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}()

	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.PublishBatch(ctx); err != nil {
				r.logger.Error("outbox publish failed", slog.String("error", err.Error()))
			}
		}
	}
}

// PublishBatch sends one batch and reports how many events were published. A failed
// send is recorded on each event and retried after a linear backoff.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	published := 0
	err := r.tx.WithinDB(ctx, func(ctx context.Context, q db.DBTX) error {
		published = 0
		store := r.newStore(q)
		now := r.clock.Now()

		records, err := store.FetchDue(ctx, now, r.batchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(records))
		ids := make([]uuid.UUID, 0, len(records))
		for _, rec := range records {
			msgs = append(msgs, kafka.Message{
				Topic: rec.Topic,
				Key:   []byte(rec.AggregateID),
				Value: rec.Payload,
				Headers: []kafka.Header{
					{Key: "event_id", Value: []byte(rec.ID.String())},
					{Key: "event_kind", Value: []byte(rec.Kind)},
				},
			})
			ids = append(ids, rec.ID)
		}

		if werr := r.writer.WriteMessages(ctx, msgs...); werr != nil {
			for _, rec := range records {
				retryAt := now.Add(time.Duration(rec.Attempts+1) * r.pollEvery)
				if err := store.MarkFailed(ctx, rec.ID, werr.Error(), retryAt, r.maxTries); err != nil {
					return err
				}
			}
			r.logger.Warn("outbox send failed, events requeued",
				slog.Int("count", len(records)),
				slog.String("error", werr.Error()))
			return nil
		}

		if err := store.MarkPublished(ctx, ids, now); err != nil {
			return err
		}
		published = len(records)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}
