package facility

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
	repo     repository.FacilityRepository
	location *time.Location
}

func NewService(repo repository.FacilityRepository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Register(ctx context.Context, req *model.CreateFacilityRequest) (*model.Facility, error) {
	facility := &model.Facility{
		FacilityID:  req.FacilityID,
		Name:        req.Name,
		Role:        model.FacilityRole(req.Role),
		Region:      model.NormalizeRegion(req.Region),
		City:        req.City,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		CreatedAt:   time.Now().In(s.location).Format(time.RFC3339),
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, apperrors.StoreUnavailable("create facility", err)
	}
	return facility, nil
}

func (s *Service) Get(ctx context.Context, name string) (*model.Facility, error) {
	facility, err := s.repo.Get(ctx, name)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("facility", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("facility lookup", err)
	}
	return facility, nil
}

// Procedures lists the records this facility committed for one patient in
// one category.
func (s *Service) Procedures(ctx context.Context, name, patientID string, category model.Category) ([]*repository.StoredRecord, error) {
	if _, err := s.Get(ctx, name); err != nil {
		return nil, err
	}
	records, err := s.repo.ListProcedures(ctx, name, patientID, category)
	if err != nil {
		return nil, apperrors.StoreUnavailable("list procedures", err)
	}
	return records, nil
}
