// Package submission routes incoming clinical records: trusted principals
// commit directly into the patient's record store, everyone else is queued
// for review under a resolved reviewer.
package submission

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

// IdentityResolver gates direct-commit eligibility.
type IdentityResolver interface {
	IsTrustedPrincipal(ctx context.Context, id string) (bool, error)
	ResolveDisplayName(ctx context.Context, id string) (string, error)
}

// ReviewerResolver picks the reviewer an untrusted submission is queued
// under.
type ReviewerResolver interface {
	ResolveReviewer(ctx context.Context, patientID string) (*model.ReviewerAssignment, error)
}

type Service struct {
	patientRepo  repository.PatientRepository
	facilityRepo repository.FacilityRepository
	pendingRepo  repository.PendingRepository
	outboxRepo   repository.OutboxRepository
	identity     IdentityResolver
	reviewer     ReviewerResolver
	metrics      *metrics.Metrics
	logger       *logger.Logger
	location     *time.Location
}

func NewService(
	patientRepo repository.PatientRepository,
	facilityRepo repository.FacilityRepository,
	pendingRepo repository.PendingRepository,
	outboxRepo repository.OutboxRepository,
	identity IdentityResolver,
	reviewer ReviewerResolver,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	location *time.Location,
) *Service {
	return &Service{
		patientRepo:  patientRepo,
		facilityRepo: facilityRepo,
		pendingRepo:  pendingRepo,
		outboxRepo:   outboxRepo,
		identity:     identity,
		reviewer:     reviewer,
		metrics:      metrics,
		logger:       logger,
		location:     location,
	}
}

// Submit routes one clinical record. Every call terminates in either a
// direct commit or an enqueue; nothing is silently dropped.
func (s *Service) Submit(ctx context.Context, patientID string, category model.Category, payload model.JSONMap, submittedBy string) (*model.SubmitResult, error) {
	patient, err := s.patientRepo.Get(ctx, patientID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}

	if err := model.ValidatePayload(category, payload); err != nil {
		return nil, apperrors.Validation("invalid record payload", err)
	}
	record := model.NormalizePayload(payload, s.location)
	record["added_by"] = submittedBy

	trusted, err := s.identity.IsTrustedPrincipal(ctx, submittedBy)
	if err != nil {
		return nil, err
	}
	if trusted {
		return s.commitDirect(ctx, patient, category, record, submittedBy)
	}
	return s.enqueue(ctx, patientID, category, record, submittedBy)
}

func (s *Service) commitDirect(ctx context.Context, patient *model.Patient, category model.Category, record model.JSONMap, submittedBy string) (*model.SubmitResult, error) {
	addedByName, err := s.identity.ResolveDisplayName(ctx, submittedBy)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	record["added_by_name"] = addedByName
	record["patient_name"] = patient.FullName
	record["date_added"] = now.Format(time.RFC3339)

	key := model.CommitKey(now)
	if err := s.patientRepo.SetRecord(ctx, patient.NationalID, category, key, record); err != nil {
		return nil, apperrors.StoreUnavailable("commit record", err)
	}

	// Doctors have no procedure log; the copy only applies to facilities.
	_, facilityKey, err := s.facilityRepo.FindByFacilityID(ctx, submittedBy)
	if err == nil {
		if err := s.facilityRepo.LogProcedure(ctx, facilityKey, patient.NationalID, category, key, record); err != nil {
			return nil, apperrors.StoreUnavailable("log procedure", err)
		}
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.StoreUnavailable("facility lookup", err)
	}

	s.metrics.SubmissionsRouted.WithLabelValues(string(category), "direct_commit").Inc()

	return &model.SubmitResult{
		Status:    model.SubmissionStatusCommitted,
		AddedBy:   submittedBy,
		RecordKey: key,
	}, nil
}

func (s *Service) enqueue(ctx context.Context, patientID string, category model.Category, record model.JSONMap, submittedBy string) (*model.SubmitResult, error) {
	assignment, err := s.reviewer.ResolveReviewer(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	submission := &model.PendingSubmission{
		ID:                 uuid.New().String(),
		NationalID:         patientID,
		Record:             record,
		DataType:           category,
		AssignedTo:         assignment.AssignedTo,
		AssignedDoctorName: assignment.DoctorName,
		SubmittedAt:        now.Format(time.RFC3339),
	}

	if err := s.pendingRepo.Put(ctx, assignment.AssignedTo, submission); err != nil {
		return nil, apperrors.StoreUnavailable("enqueue submission", err)
	}

	s.publishQueuedEvent(ctx, submission, submittedBy)
	s.metrics.SubmissionsRouted.WithLabelValues(string(category), "queued").Inc()

	return &model.SubmitResult{
		Status:       model.SubmissionStatusQueued,
		AssignedTo:   assignment.AssignedTo,
		SubmissionID: submission.ID,
	}, nil
}

func (s *Service) publishQueuedEvent(ctx context.Context, submission *model.PendingSubmission, submittedBy string) {
	payload, err := json.Marshal(model.JSONMap{
		"submission_id": submission.ID,
		"national_id":   submission.NationalID,
		"data_type":     submission.DataType,
		"assigned_to":   submission.AssignedTo,
		"submitted_by":  submittedBy,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal queued event")
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventSubmissionQueued,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to stage queued event")
	}
}

// ListRecords returns a patient's committed records in one category.
func (s *Service) ListRecords(ctx context.Context, patientID string, category model.Category) ([]*repository.StoredRecord, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}

	records, err := s.patientRepo.ListRecords(ctx, patientID, category)
	if err != nil {
		return nil, apperrors.StoreUnavailable("list records", err)
	}
	return records, nil
}
