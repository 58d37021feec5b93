// Package review implements the pending-submission queue and the
// approve/reject decision processing.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
	"github.com/clinirec/clinical-api/pkg/logger"
	"github.com/clinirec/clinical-api/pkg/metrics"
)

// ReviewerKeyResolver maps a reviewer identifier to its queue storage key.
type ReviewerKeyResolver interface {
	ResolveReviewerKey(ctx context.Context, reviewerID string) (string, error)
}

// DisplayNameResolver maps a submitter identifier to a human-readable name.
type DisplayNameResolver interface {
	ResolveDisplayName(ctx context.Context, id string) (string, error)
}

type Service struct {
	patientRepo repository.PatientRepository
	pendingRepo repository.PendingRepository
	archiveRepo repository.ArchiveRepository
	outboxRepo  repository.OutboxRepository
	reviewer    ReviewerKeyResolver
	identity    DisplayNameResolver
	metrics     *metrics.Metrics
	logger      *logger.Logger
	location    *time.Location
}

func NewService(
	patientRepo repository.PatientRepository,
	pendingRepo repository.PendingRepository,
	archiveRepo repository.ArchiveRepository,
	outboxRepo repository.OutboxRepository,
	reviewer ReviewerKeyResolver,
	identity DisplayNameResolver,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	location *time.Location,
) *Service {
	return &Service{
		patientRepo: patientRepo,
		pendingRepo: pendingRepo,
		archiveRepo: archiveRepo,
		outboxRepo:  outboxRepo,
		reviewer:    reviewer,
		identity:    identity,
		metrics:     metrics,
		logger:      logger,
		location:    location,
	}
}

// ListForReviewer enumerates everything queued for one reviewer. The
// listing reflects current store state; a concurrent decision may remove
// items mid-enumeration.
func (s *Service) ListForReviewer(ctx context.Context, reviewerID string) ([]*model.PendingSubmission, error) {
	key, err := s.reviewer.ResolveReviewerKey(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.pendingRepo.ListForReviewer(ctx, key)
	if err != nil {
		return nil, apperrors.StoreUnavailable("list pending", err)
	}
	return submissions, nil
}

// ListAll enumerates the queues of every reviewer. Admin surface.
func (s *Service) ListAll(ctx context.Context) ([]*model.PendingSubmission, error) {
	submissions, err := s.pendingRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("list pending", err)
	}
	return submissions, nil
}

// Approve commits a queued submission into the patient's record store,
// archives it, and purges every queued copy. A second approve of the same
// id finds nothing and fails NotFound, which callers treat as a benign
// race.
func (s *Service) Approve(ctx context.Context, reviewerID, submissionID, reviewerName string) (*model.DecisionResult, error) {
	key, submission, err := s.find(ctx, reviewerID, submissionID)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.Get(ctx, submission.NationalID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}

	// A committed record carries the same enrichment regardless of the
	// path it took in: the submitter's display name and the patient's
	// name are resolved here exactly as a direct commit resolves them.
	addedBy, _ := submission.Record["added_by"].(string)
	addedByName, err := s.identity.ResolveDisplayName(ctx, addedBy)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	recordKey := model.CommitKey(now)
	record := submission.Record.Copy()
	record["added_by_name"] = addedByName
	record["patient_name"] = patient.FullName
	record["date_added"] = now.Format(time.RFC3339)

	if err := s.patientRepo.SetRecord(ctx, submission.NationalID, submission.DataType, recordKey, record); err != nil {
		return nil, apperrors.StoreUnavailable("commit record", err)
	}

	entry := model.JSONMap{
		"national_id": submission.NationalID,
		"record":      map[string]interface{}(record),
		"data_type":   string(submission.DataType),
		"approved_at": now.Format(time.RFC3339),
		"approved_by": reviewerID,
	}
	if err := s.archiveRepo.PutApproved(ctx, key, submission.DataType, submissionID, entry); err != nil {
		return nil, apperrors.StoreUnavailable("archive approval", err)
	}

	if err := s.purge(ctx, submission.DataType, submissionID, reviewerName); err != nil {
		return nil, err
	}

	s.metrics.ReviewDecisions.WithLabelValues(string(submission.DataType), "approved").Inc()
	s.publishDecision(ctx, submission, "approved", reviewerID)

	return &model.DecisionResult{
		NationalID: submission.NationalID,
		DataType:   submission.DataType,
		RecordKey:  recordKey,
	}, nil
}

// Reject archives a queued submission without touching the patient's
// record store, then purges every queued copy.
func (s *Service) Reject(ctx context.Context, reviewerID, submissionID, reviewerName string) (*model.DecisionResult, error) {
	key, submission, err := s.find(ctx, reviewerID, submissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	entry := model.JSONMap{
		"national_id": submission.NationalID,
		"record":      map[string]interface{}(submission.Record),
		"data_type":   string(submission.DataType),
		"rejected_at": now.Format(time.RFC3339),
		"rejected_by": reviewerID,
	}
	if err := s.archiveRepo.PutRejected(ctx, key, submission.DataType, submissionID, entry); err != nil {
		return nil, apperrors.StoreUnavailable("archive rejection", err)
	}

	if err := s.purge(ctx, submission.DataType, submissionID, reviewerName); err != nil {
		return nil, err
	}

	s.metrics.ReviewDecisions.WithLabelValues(string(submission.DataType), "rejected").Inc()
	s.publishDecision(ctx, submission, "rejected", reviewerID)

	return &model.DecisionResult{
		NationalID: submission.NationalID,
		DataType:   submission.DataType,
	}, nil
}

// find locates the authoritative queued copy under the resolving
// reviewer's key. Categories are scanned in the fixed model.Categories
// order; if the same id somehow exists in several categories, the first
// match wins.
func (s *Service) find(ctx context.Context, reviewerID, submissionID string) (string, *model.PendingSubmission, error) {
	key, err := s.reviewer.ResolveReviewerKey(ctx, reviewerID)
	if err != nil {
		return "", nil, err
	}

	for _, category := range model.Categories {
		submission, err := s.pendingRepo.Get(ctx, key, category, submissionID)
		if err == nil {
			return key, submission, nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return "", nil, apperrors.StoreUnavailable("pending lookup", err)
		}
	}
	return "", nil, apperrors.NotFound("pending submission", nil)
}

// purge removes every queued copy of a submission id in one category: the
// originating human-readable reviewer namespace when supplied, then every
// reviewer namespace currently holding queued work. Deleting a missing
// copy is a no-op, which is what makes decisions retry-safe.
func (s *Service) purge(ctx context.Context, category model.Category, submissionID, reviewerName string) error {
	keys := []string{}
	if reviewerName != "" {
		keys = append(keys, reviewerName)
	}

	reviewerKeys, err := s.pendingRepo.ListReviewerKeys(ctx)
	if err != nil {
		return apperrors.StoreUnavailable("list reviewer queues", err)
	}
	keys = append(keys, reviewerKeys...)

	for _, key := range keys {
		if err := s.pendingRepo.Delete(ctx, key, category, submissionID); err != nil {
			return apperrors.StoreUnavailable("purge pending", err)
		}
		s.metrics.PendingPurged.Inc()
	}
	return nil
}

func (s *Service) publishDecision(ctx context.Context, submission *model.PendingSubmission, decision, reviewerID string) {
	payload, err := json.Marshal(model.JSONMap{
		"submission_id": submission.ID,
		"national_id":   submission.NationalID,
		"data_type":     submission.DataType,
		"decision":      decision,
		"decided_by":    reviewerID,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal decision event")
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventReviewDecided,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to stage decision event")
	}
}
