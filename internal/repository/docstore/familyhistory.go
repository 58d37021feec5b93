package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type familyHistoryRepository struct {
	store docstore.Store
}

func NewFamilyHistoryRepository(store docstore.Store) repository.FamilyHistoryRepository {
	return &familyHistoryRepository{store: store}
}

func (r *familyHistoryRepository) col(nationalID string) string {
	return docstore.Join(colPatients, nationalID, colFamilyHistory)
}

func (r *familyHistoryRepository) Put(ctx context.Context, nationalID string, entry *model.FamilyHistoryEntry) error {
	fields, err := toFields(entry)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.Join(r.col(nationalID), entry.ID), fields)
}

func (r *familyHistoryRepository) Get(ctx context.Context, nationalID, id string) (*model.FamilyHistoryEntry, error) {
	doc, err := r.store.Get(ctx, docstore.Join(r.col(nationalID), id))
	if err != nil {
		return nil, err
	}
	entry := &model.FamilyHistoryEntry{}
	if err := fromFields(doc.Fields, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *familyHistoryRepository) List(ctx context.Context, nationalID string) ([]*model.FamilyHistoryEntry, error) {
	docs, err := r.store.ListDocuments(ctx, r.col(nationalID))
	if err != nil {
		return nil, err
	}
	entries := make([]*model.FamilyHistoryEntry, 0, len(docs))
	for _, doc := range docs {
		entry := &model.FamilyHistoryEntry{}
		if err := fromFields(doc.Fields, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *familyHistoryRepository) Delete(ctx context.Context, nationalID, id string) error {
	return r.store.Delete(ctx, docstore.Join(r.col(nationalID), id))
}
