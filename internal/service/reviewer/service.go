// Package reviewer resolves who reviews a patient's queued submissions:
// the explicitly assigned doctor when one is on file, otherwise a regional
// auto-assignment with an administrative fallback.
package reviewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

type Service struct {
	patientRepo    repository.PatientRepository
	assignmentRepo repository.AssignmentRepository
	doctorRepo     repository.DoctorRepository
	facilityRepo   repository.FacilityRepository
}

func NewService(
	patientRepo repository.PatientRepository,
	assignmentRepo repository.AssignmentRepository,
	doctorRepo repository.DoctorRepository,
	facilityRepo repository.FacilityRepository,
) *Service {
	return &Service{
		patientRepo:    patientRepo,
		assignmentRepo: assignmentRepo,
		doctorRepo:     doctorRepo,
		facilityRepo:   facilityRepo,
	}
}

// ResolveReviewer produces the reviewer a submission for this patient is
// queued under. Priority: explicit assignment verbatim (registered or
// not), then same-region hospital facility, then same-region doctor, then
// the administrative sentinel. The patient must exist; the region is never
// fabricated.
func (s *Service) ResolveReviewer(ctx context.Context, patientID string) (*model.ReviewerAssignment, error) {
	patient, err := s.patientRepo.Get(ctx, patientID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}

	assigned, err := s.FindAssignedDoctor(ctx, patientID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if assigned != nil {
		return &model.ReviewerAssignment{
			AssignedTo: assigned.Email,
			DoctorName: assigned.Name,
			Kind:       model.ReviewerKindDoctor,
		}, nil
	}

	return s.autoAssign(ctx, patient)
}

func (s *Service) autoAssign(ctx context.Context, patient *model.Patient) (*model.ReviewerAssignment, error) {
	region := model.NormalizeRegion(patient.Region)

	_, facilityKey, err := s.facilityRepo.FindHospitalByRegion(ctx, region)
	if err == nil {
		return &model.ReviewerAssignment{AssignedTo: facilityKey, Kind: model.ReviewerKindFacility}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.StoreUnavailable("facility lookup", err)
	}

	_, doctorKey, err := s.doctorRepo.FindFirstByRegion(ctx, region)
	if err == nil {
		return &model.ReviewerAssignment{AssignedTo: doctorKey, Kind: model.ReviewerKindDoctor}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.StoreUnavailable("doctor lookup", err)
	}

	return &model.ReviewerAssignment{AssignedTo: model.AdminReviewer, Kind: model.ReviewerKindAdmin}, nil
}

// FindAssignedDoctor returns the doctor explicitly assigned to a patient:
// from the global assignment records first, then from the assigned-patient
// sets of registered doctors. NotFound when no assignment exists.
func (s *Service) FindAssignedDoctor(ctx context.Context, patientID string) (*model.AssignedDoctor, error) {
	assignments, err := s.assignmentRepo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("assignment lookup", err)
	}
	for _, assignment := range assignments {
		if assignment.DoctorEmail == "" {
			continue
		}
		name := assignment.DoctorName
		if doctor, getErr := s.doctorRepo.Get(ctx, assignment.DoctorEmail); getErr == nil {
			name = doctor.DoctorName
		}
		return &model.AssignedDoctor{Email: assignment.DoctorEmail, Name: name}, nil
	}

	doctorKeys, err := s.doctorRepo.ListKeys(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("doctor listing", err)
	}
	for _, key := range doctorKeys {
		assigned, err := s.doctorRepo.IsAssigned(ctx, key, patientID)
		if err != nil {
			return nil, apperrors.StoreUnavailable("assignment lookup", err)
		}
		if !assigned {
			continue
		}
		name := ""
		if doctor, getErr := s.doctorRepo.Get(ctx, key); getErr == nil {
			name = doctor.DoctorName
		}
		return &model.AssignedDoctor{Email: key, Name: name}, nil
	}

	return nil, apperrors.NotFound("doctor assignment", nil)
}

// ResolveReviewerKey maps a reviewer identifier to the storage key its
// queue lives under: facilities are queued under their human-readable
// name, doctors and the admin sentinel under the identifier itself.
func (s *Service) ResolveReviewerKey(ctx context.Context, reviewerID string) (string, error) {
	_, facilityKey, err := s.facilityRepo.FindByFacilityID(ctx, reviewerID)
	if err == nil {
		return facilityKey, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return "", apperrors.StoreUnavailable("facility lookup", err)
	}

	if _, err := s.doctorRepo.Get(ctx, reviewerID); err == nil {
		return reviewerID, nil
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return "", apperrors.StoreUnavailable("doctor lookup", err)
	}

	if reviewerID == model.AdminReviewer {
		return model.AdminReviewer, nil
	}

	return "", apperrors.NotFound(fmt.Sprintf("reviewer %q", reviewerID), nil)
}
