package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type archiveRepository struct {
	store docstore.Store
}

func NewArchiveRepository(store docstore.Store) repository.ArchiveRepository {
	return &archiveRepository{store: store}
}

func (r *archiveRepository) PutApproved(ctx context.Context, reviewerKey string, category model.Category, id string, entry model.JSONMap) error {
	return r.store.Set(ctx, docstore.Join(colApproved, reviewerKey, string(category), id), docstore.Fields(entry))
}

func (r *archiveRepository) PutRejected(ctx context.Context, reviewerKey string, category model.Category, id string, entry model.JSONMap) error {
	return r.store.Set(ctx, docstore.Join(colRejected, reviewerKey, string(category), id), docstore.Fields(entry))
}
