// Package familyhistory manages a patient's hereditary-condition entries.
// Entries are written directly by the submitter and never enter the
// review queue; updates and deletes are gated on the original submitter.
package familyhistory

import (
	"context"
	"errors"
	"time"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

type Service struct {
	patientRepo repository.PatientRepository
	historyRepo repository.FamilyHistoryRepository
	location    *time.Location
}

func NewService(patientRepo repository.PatientRepository, historyRepo repository.FamilyHistoryRepository, location *time.Location) *Service {
	return &Service{
		patientRepo: patientRepo,
		historyRepo: historyRepo,
		location:    location,
	}
}

// Add stores a new entry under a timestamp-derived id. The timestamp
// field mirrors the id, the same convention committed clinical records
// use for their keys.
func (s *Service) Add(ctx context.Context, nationalID string, req *model.FamilyHistoryRequest) (*model.FamilyHistoryEntry, error) {
	if err := s.requirePatient(ctx, nationalID); err != nil {
		return nil, err
	}

	id := model.CommitKey(time.Now().In(s.location))
	entry := &model.FamilyHistoryEntry{
		ID:             id,
		PatientID:      nationalID,
		RelativeName:   req.RelativeName,
		Relationship:   req.Relationship,
		Condition:      req.Condition,
		AgeAtDiagnosis: req.AgeAtDiagnosis,
		AddedBy:        req.AddedBy,
		Timestamp:      id,
	}
	if err := s.historyRepo.Put(ctx, nationalID, entry); err != nil {
		return nil, apperrors.StoreUnavailable("add family history", err)
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, nationalID string) ([]*model.FamilyHistoryEntry, error) {
	if err := s.requirePatient(ctx, nationalID); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.List(ctx, nationalID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("list family history", err)
	}
	return entries, nil
}

// Update replaces an entry in place. Only the original submitter may do
// so; the id and its timestamp are preserved.
func (s *Service) Update(ctx context.Context, nationalID, id string, req *model.FamilyHistoryRequest) (*model.FamilyHistoryEntry, error) {
	existing, err := s.get(ctx, nationalID, id)
	if err != nil {
		return nil, err
	}
	if existing.AddedBy != req.AddedBy {
		return nil, apperrors.Forbidden("only the original submitter may update this entry")
	}

	entry := &model.FamilyHistoryEntry{
		ID:             existing.ID,
		PatientID:      nationalID,
		RelativeName:   req.RelativeName,
		Relationship:   req.Relationship,
		Condition:      req.Condition,
		AgeAtDiagnosis: req.AgeAtDiagnosis,
		AddedBy:        req.AddedBy,
		Timestamp:      existing.Timestamp,
	}
	if err := s.historyRepo.Put(ctx, nationalID, entry); err != nil {
		return nil, apperrors.StoreUnavailable("update family history", err)
	}
	return entry, nil
}

// Delete removes an entry, gated on submitter identity.
func (s *Service) Delete(ctx context.Context, nationalID, id, deletedBy string) error {
	existing, err := s.get(ctx, nationalID, id)
	if err != nil {
		return err
	}
	if existing.AddedBy != deletedBy {
		return apperrors.Forbidden("only the original submitter may delete this entry")
	}
	if err := s.historyRepo.Delete(ctx, nationalID, id); err != nil {
		return apperrors.StoreUnavailable("delete family history", err)
	}
	return nil
}

func (s *Service) requirePatient(ctx context.Context, nationalID string) error {
	_, err := s.patientRepo.Get(ctx, nationalID)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	if err != nil {
		return apperrors.StoreUnavailable("patient lookup", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, nationalID, id string) (*model.FamilyHistoryEntry, error) {
	entry, err := s.historyRepo.Get(ctx, nationalID, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("family history entry", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("family history lookup", err)
	}
	return entry, nil
}
