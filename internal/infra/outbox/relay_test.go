//go:build unit

package outbox_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/infra/outbox"
	"lounge-booking/internal/infra/repository"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinDB(ctx context.Context, fn func(ctx context.Context, q db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeStore struct {
	due       []repository.OutboxRecord
	published []uuid.UUID
	failed    map[uuid.UUID]time.Time
}

func (s *fakeStore) FetchDue(context.Context, time.Time, int) ([]repository.OutboxRecord, error) {
	return s.due, nil
}

func (s *fakeStore) MarkPublished(_ context.Context, ids []uuid.UUID, _ time.Time) error {
	s.published = append(s.published, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id uuid.UUID, _ string, retryAt time.Time, _ int) error {
	if s.failed == nil {
		s.failed = map[uuid.UUID]time.Time{}
	}
	s.failed[id] = retryAt
	return nil
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newRelay(store *fakeStore, writer *fakeWriter, clk clock.Clock) *outbox.Relay {
	cfg := config.NewTestConfig().Kafka
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return outbox.NewRelay(passthroughTx{}, writer, clk, logger, cfg).
		WithStoreFactory(func(db.DBTX) outbox.Store { return store })
}

func record(topic, aggregate string, attempts int) repository.OutboxRecord {
	return repository.OutboxRecord{
		OutboxEvent: shared.OutboxEvent{
			ID:          uuid.New(),
			Kind:        shared.OutboxKindBooking,
			Topic:       topic,
			AggregateID: aggregate,
			Payload:     []byte(`{}`),
		},
		Attempts: attempts,
	}
}

func TestRelay_PublishBatch(t *testing.T) {
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	t.Run("publishes and marks events", func(t *testing.T) {
		store := &fakeStore{due: []repository.OutboxRecord{
			record(shared.TopicBookingConfirmed, "pay_1", 0),
			record(shared.TopicReconciliationNeeded, "pay_2", 0),
		}}
		writer := &fakeWriter{}

		n, err := newRelay(store, writer, clock.NewMockClock(now)).PublishBatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, writer.msgs, 2)
		assert.Equal(t, shared.TopicBookingConfirmed, writer.msgs[0].Topic)
		assert.Equal(t, "pay_1", string(writer.msgs[0].Key))
		assert.Equal(t, shared.TopicReconciliationNeeded, writer.msgs[1].Topic)
		assert.ElementsMatch(t, []uuid.UUID{store.due[0].ID, store.due[1].ID}, store.published)
	})

	t.Run("empty queue is a no-op", func(t *testing.T) {
		store := &fakeStore{}
		writer := &fakeWriter{}
		n, err := newRelay(store, writer, clock.NewMockClock(now)).PublishBatch(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, writer.msgs)
	})

	t.Run("send failure requeues with backoff", func(t *testing.T) {
		rec := record(shared.TopicBookingConfirmed, "pay_1", 2)
		store := &fakeStore{due: []repository.OutboxRecord{rec}}
		writer := &fakeWriter{err: errors.New("broker down")}

		n, err := newRelay(store, writer, clock.NewMockClock(now)).PublishBatch(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, store.published)
		assert.Equal(t, now.Add(3*config.NewTestConfig().Kafka.OutboxPollEvery), store.failed[rec.ID])
	})
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, outbox.SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, outbox.SplitBrokers(""))
	assert.Nil(t, outbox.NewKafkaWriter(config.KafkaConfig{}))
}
