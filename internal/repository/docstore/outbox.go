package docstore

import (
	"context"
	"time"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type outboxRepository struct {
	store docstore.Store
}

func NewOutboxRepository(store docstore.Store) repository.OutboxRepository {
	return &outboxRepository{store: store}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now().UTC()

	fields, err := toFields(event)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.Join(colOutbox, event.ID.String()), fields)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	docs, err := r.store.Query(ctx, colOutbox, "status", string(model.OutboxStatusPending), limit)
	if err != nil {
		return nil, err
	}
	events := make([]*model.OutboxEvent, 0, len(docs))
	for _, doc := range docs {
		event := &model.OutboxEvent{}
		if err := fromFields(doc.Fields, event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, event *model.OutboxEvent) error {
	now := time.Now().UTC()
	return r.store.Update(ctx, docstore.Join(colOutbox, event.ID.String()), docstore.Fields{
		"status":       string(model.OutboxStatusProcessed),
		"processed_at": now.Format(time.RFC3339),
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, event *model.OutboxEvent, cause string) error {
	return r.store.Update(ctx, docstore.Join(colOutbox, event.ID.String()), docstore.Fields{
		"status": string(model.OutboxStatusFailed),
		"error":  cause,
	})
}
