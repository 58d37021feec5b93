package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type pendingRepository struct {
	store docstore.Store
}

func NewPendingRepository(store docstore.Store) repository.PendingRepository {
	return &pendingRepository{store: store}
}

func (r *pendingRepository) docPath(reviewerKey string, category model.Category, id string) string {
	return docstore.Join(colPending, reviewerKey, string(category), id)
}

func (r *pendingRepository) Put(ctx context.Context, reviewerKey string, submission *model.PendingSubmission) error {
	fields := docstore.Fields{
		"national_id":          submission.NationalID,
		"record":               map[string]interface{}(submission.Record),
		"data_type":            string(submission.DataType),
		"assigned_to":          submission.AssignedTo,
		"assigned_doctor_name": submission.AssignedDoctorName,
		"submitted_at":         submission.SubmittedAt,
	}
	return r.store.Set(ctx, r.docPath(reviewerKey, submission.DataType, submission.ID), fields)
}

func (r *pendingRepository) Get(ctx context.Context, reviewerKey string, category model.Category, id string) (*model.PendingSubmission, error) {
	doc, err := r.store.Get(ctx, r.docPath(reviewerKey, category, id))
	if err != nil {
		return nil, err
	}
	return decodePending(doc, category, reviewerKey)
}

func (r *pendingRepository) ListForReviewer(ctx context.Context, reviewerKey string) ([]*model.PendingSubmission, error) {
	categories, err := r.store.ListChildren(ctx, docstore.Join(colPending, reviewerKey))
	if err != nil {
		return nil, err
	}

	var submissions []*model.PendingSubmission
	for _, category := range categories {
		docs, err := r.store.ListDocuments(ctx, docstore.Join(colPending, reviewerKey, category))
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			submission, err := decodePending(doc, model.Category(category), reviewerKey)
			if err != nil {
				return nil, err
			}
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func (r *pendingRepository) ListAll(ctx context.Context) ([]*model.PendingSubmission, error) {
	reviewers, err := r.ListReviewerKeys(ctx)
	if err != nil {
		return nil, err
	}

	var submissions []*model.PendingSubmission
	for _, reviewerKey := range reviewers {
		forReviewer, err := r.ListForReviewer(ctx, reviewerKey)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, forReviewer...)
	}
	return submissions, nil
}

func (r *pendingRepository) Delete(ctx context.Context, reviewerKey string, category model.Category, id string) error {
	return r.store.Delete(ctx, r.docPath(reviewerKey, category, id))
}

func (r *pendingRepository) ListReviewerKeys(ctx context.Context) ([]string, error) {
	return r.store.ListChildren(ctx, colPending)
}

func decodePending(doc *docstore.Document, category model.Category, reviewerKey string) (*model.PendingSubmission, error) {
	submission := &model.PendingSubmission{}
	if err := fromFields(doc.Fields, submission); err != nil {
		return nil, err
	}
	submission.ID = doc.ID
	if submission.DataType == "" {
		submission.DataType = category
	}
	if submission.AssignedTo == "" {
		submission.AssignedTo = reviewerKey
	}
	return submission, nil
}
