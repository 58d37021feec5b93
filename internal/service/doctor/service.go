package doctor

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
	repo     repository.DoctorRepository
	location *time.Location
}

func NewService(repo repository.DoctorRepository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Register(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		DoctorID:       req.DoctorID,
		Email:          req.Email,
		DoctorName:     req.DoctorName,
		Region:         model.NormalizeRegion(req.Region),
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		CreatedAt:      time.Now().In(s.location).Format(time.RFC3339),
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, apperrors.StoreUnavailable("create doctor", err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, key string) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, key)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("doctor lookup", err)
	}
	return doctor, nil
}
