package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinirec/clinical-api/internal/docstore/memory"
	"github.com/clinirec/clinical-api/internal/model"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/pkg/logger"
	"github.com/clinirec/clinical-api/pkg/metrics"
)

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	fail      bool
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broker down")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) channels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published...)
}

func newProcessor(t *testing.T, broker *fakeBroker) (*OutboxProcessor, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repo := repodocstore.NewOutboxRepository(store)
	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  10 * time.Millisecond,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), metrics.NewMetrics(prometheus.NewRegistry(), "test", "worker"))
	return p, store
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	broker := &fakeBroker{}
	p, store := newProcessor(t, broker)
	ctx := context.Background()
	repo := repodocstore.NewOutboxRepository(store)

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventSubmissionQueued,
		Payload:   []byte(`{"submission_id":"s1"}`),
	}
	require.NoError(t, repo.Create(ctx, event))

	require.NoError(t, p.processEvents(ctx))
	assert.Equal(t, []string{model.EventSubmissionQueued}, broker.channels())

	pending, err := repo.ListPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending, "processed events leave the pending set")
}

func TestProcessEventsMarksFailed(t *testing.T) {
	broker := &fakeBroker{fail: true}
	p, store := newProcessor(t, broker)
	ctx := context.Background()
	repo := repodocstore.NewOutboxRepository(store)

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventReviewDecided,
		Payload:   []byte(`{}`),
	}
	require.NoError(t, repo.Create(ctx, event))

	require.NoError(t, p.processEvents(ctx), "one bad event does not abort the batch")

	pending, err := repo.ListPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending, "failed events leave the pending set too")

	doc, err := store.Get(ctx, "Outbox/"+event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(model.OutboxStatusFailed), doc.Fields["status"])
	assert.Contains(t, doc.Fields["error"], "broker down")
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	err := retry(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retry(2, time.Millisecond, func() error { return errors.New("always") })
	assert.Error(t, err)
}
