package patient

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
	repo     repository.PatientRepository
	location *time.Location
}

func NewService(repo repository.PatientRepository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		NationalID:        req.NationalID,
		FullName:          req.FullName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Gender:            req.Gender,
		DateOfBirth:       req.DateOfBirth,
		Address:           req.Address,
		City:              req.City,
		Region:            model.NormalizeRegion(req.Region),
		BloodType:         req.BloodType,
		ChronicDiseases:   req.ChronicDiseases,
		EmergencyContacts: req.EmergencyContacts,
		CreatedAt:         time.Now().In(s.location).Format(time.RFC3339),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.StoreUnavailable("create patient", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, nationalID string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, nationalID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}
	return patient, nil
}

// EmergencyInfo is the first-responder view: the patient profile plus a
// computed age.
func (s *Service) EmergencyInfo(ctx context.Context, nationalID string) (*model.EmergencyInfo, error) {
	patient, err := s.Get(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	return &model.EmergencyInfo{
		Patient: *patient,
		Age:     patient.Age(time.Now().In(s.location)),
	}, nil
}

// UpdateRecord replaces a committed record. Only the original submitter
// may do so; the original commit timestamp is preserved.
func (s *Service) UpdateRecord(ctx context.Context, nationalID string, category model.Category, recordKey string, payload model.JSONMap, updatedBy string) error {
	existing, err := s.getRecord(ctx, nationalID, category, recordKey)
	if err != nil {
		return err
	}
	if addedBy, _ := existing["added_by"].(string); addedBy != updatedBy {
		return apperrors.Forbidden("only the original submitter may update this record")
	}

	if err := model.ValidatePayload(category, payload); err != nil {
		return apperrors.Validation("invalid record payload", err)
	}

	record := model.NormalizePayload(payload, s.location)
	record["added_by"] = updatedBy
	record["date_added"] = existing["date_added"]

	if err := s.repo.SetRecord(ctx, nationalID, category, recordKey, record); err != nil {
		return apperrors.StoreUnavailable("update record", err)
	}
	return nil
}

// DeleteRecord removes a committed record, gated on submitter identity.
func (s *Service) DeleteRecord(ctx context.Context, nationalID string, category model.Category, recordKey, deletedBy string) error {
	existing, err := s.getRecord(ctx, nationalID, category, recordKey)
	if err != nil {
		return err
	}
	if addedBy, _ := existing["added_by"].(string); addedBy != deletedBy {
		return apperrors.Forbidden("only the original submitter may delete this record")
	}

	if err := s.repo.DeleteRecord(ctx, nationalID, category, recordKey); err != nil {
		return apperrors.StoreUnavailable("delete record", err)
	}
	return nil
}

func (s *Service) getRecord(ctx context.Context, nationalID string, category model.Category, recordKey string) (model.JSONMap, error) {
	record, err := s.repo.GetRecord(ctx, nationalID, category, recordKey)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("record", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("record lookup", err)
	}
	return record, nil
}
