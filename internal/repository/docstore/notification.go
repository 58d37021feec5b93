package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type notificationRepository struct {
	store docstore.Store
}

func NewNotificationRepository(store docstore.Store) repository.NotificationRepository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Put(ctx context.Context, key string, notification *model.AdminNotification) error {
	fields, err := toFields(notification)
	if err != nil {
		return err
	}
	// Full overwrite: a retried assignment refreshes the alert in place
	// instead of appending a duplicate.
	return r.store.Set(ctx, docstore.Join(adminNotificationsCol, key), fields)
}

func (r *notificationRepository) List(ctx context.Context) ([]*model.AdminNotification, error) {
	docs, err := r.store.ListDocuments(ctx, adminNotificationsCol)
	if err != nil {
		return nil, err
	}
	notifications := make([]*model.AdminNotification, 0, len(docs))
	for _, doc := range docs {
		notification := &model.AdminNotification{}
		if err := fromFields(doc.Fields, notification); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}
