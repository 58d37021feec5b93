// Package identity decides whether a submitter identity is a trusted
// direct-write principal: a registered facility (by facility_id) or a
// registered doctor (by doctor_id).
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/repository"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

const (
	cacheTTL      = 2 * time.Minute
	cacheCleanup  = 10 * time.Minute
	trustedPrefix = "trusted:"
	namePrefix    = "name:"
)

type Service struct {
	facilityRepo repository.FacilityRepository
	doctorRepo   repository.DoctorRepository
	cache        *cache.Cache
}

func NewService(facilityRepo repository.FacilityRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		facilityRepo: facilityRepo,
		doctorRepo:   doctorRepo,
		cache:        cache.New(cacheTTL, cacheCleanup),
	}
}

// IsTrustedPrincipal reports whether id names a registered facility or
// doctor. Unknown or empty ids are simply untrusted, never an error;
// store failures are.
func (s *Service) IsTrustedPrincipal(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	if trusted, found := s.cache.Get(trustedPrefix + id); found {
		return trusted.(bool), nil
	}

	_, _, err := s.facilityRepo.FindByFacilityID(ctx, id)
	if err == nil {
		s.cache.Set(trustedPrefix+id, true, cache.DefaultExpiration)
		return true, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return false, apperrors.StoreUnavailable("facility lookup", err)
	}

	_, _, err = s.doctorRepo.FindByDoctorID(ctx, id)
	if err == nil {
		s.cache.Set(trustedPrefix+id, true, cache.DefaultExpiration)
		return true, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return false, apperrors.StoreUnavailable("doctor lookup", err)
	}

	s.cache.Set(trustedPrefix+id, false, cache.DefaultExpiration)
	return false, nil
}

// ResolveDisplayName maps a principal id to a human-readable name for
// committed records. Unknown ids resolve to the empty string.
func (s *Service) ResolveDisplayName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, found := s.cache.Get(namePrefix + id); found {
		return name.(string), nil
	}

	facility, _, err := s.facilityRepo.FindByFacilityID(ctx, id)
	if err == nil {
		s.cache.Set(namePrefix+id, facility.Name, cache.DefaultExpiration)
		return facility.Name, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return "", apperrors.StoreUnavailable("facility lookup", err)
	}

	doctor, _, err := s.doctorRepo.FindByDoctorID(ctx, id)
	if err == nil {
		s.cache.Set(namePrefix+id, doctor.DoctorName, cache.DefaultExpiration)
		return doctor.DoctorName, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return "", apperrors.StoreUnavailable("doctor lookup", err)
	}

	return "", nil
}
