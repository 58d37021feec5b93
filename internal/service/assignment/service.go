// Package assignment manages explicit patient/doctor assignments.
// Registered doctors receive the patient in their own assigned-patient
// set; unregistered doctors produce a global assignment record and a
// deduplicated administrative alert.
package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/email"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
	"github.com/clinirec/clinical-api/pkg/logger"
)

type Service struct {
	patientRepo      repository.PatientRepository
	doctorRepo       repository.DoctorRepository
	assignmentRepo   repository.AssignmentRepository
	notificationRepo repository.NotificationRepository
	outboxRepo       repository.OutboxRepository
	emailSvc         email.Service
	logger           *logger.Logger
	location         *time.Location
}

func NewService(
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	assignmentRepo repository.AssignmentRepository,
	notificationRepo repository.NotificationRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
	logger *logger.Logger,
	location *time.Location,
) *Service {
	return &Service{
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		assignmentRepo:   assignmentRepo,
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		emailSvc:         emailSvc,
		logger:           logger,
		location:         location,
	}
}

func (s *Service) Assign(ctx context.Context, req *model.CreateAssignmentRequest) (*model.AssignmentResult, error) {
	if _, err := s.patientRepo.Get(ctx, req.PatientNationalID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.StoreUnavailable("patient lookup", err)
	}

	now := time.Now().In(s.location)
	assignmentID := uuid.New().String()

	_, err := s.doctorRepo.Get(ctx, req.DoctorEmail)
	if err == nil {
		// Registered doctor: write straight into its assigned-patient set.
		if err := s.doctorRepo.AssignPatient(ctx, req.DoctorEmail, req.PatientNationalID, now.Format(time.RFC3339)); err != nil {
			return nil, apperrors.StoreUnavailable("assign patient", err)
		}
		return &model.AssignmentResult{
			AssignedTo:   req.DoctorEmail,
			AssignmentID: assignmentID,
			Registered:   true,
		}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.StoreUnavailable("doctor lookup", err)
	}

	return s.assignUnregistered(ctx, req, assignmentID, now)
}

func (s *Service) assignUnregistered(ctx context.Context, req *model.CreateAssignmentRequest, assignmentID string, now time.Time) (*model.AssignmentResult, error) {
	doctorName := req.DoctorName
	if doctorName == "" {
		doctorName = "Unknown"
	}

	assignment := &model.Assignment{
		AssignmentID:      assignmentID,
		DoctorEmail:       req.DoctorEmail,
		DoctorName:        doctorName,
		PatientNationalID: req.PatientNationalID,
		AssignedTo:        model.AdminReviewer,
		AssignmentDate:    now.Format(time.RFC3339),
		Notes:             req.Notes,
	}
	if err := s.assignmentRepo.Put(ctx, assignment); err != nil {
		return nil, apperrors.StoreUnavailable("store assignment", err)
	}

	notification := &model.AdminNotification{
		PatientNationalID: req.PatientNationalID,
		DoctorEmail:       req.DoctorEmail,
		Message: fmt.Sprintf("Patient %s was assigned to %q, who is not registered.",
			req.PatientNationalID, req.DoctorEmail),
		Timestamp: now.Format(time.RFC3339),
	}
	notificationKey := repodocstore.AssignmentDocID(req.DoctorEmail, req.PatientNationalID)
	if err := s.notificationRepo.Put(ctx, notificationKey, notification); err != nil {
		return nil, apperrors.StoreUnavailable("store admin notification", err)
	}

	s.publishEvent(ctx, notification)

	if err := s.emailSvc.SendAdminAlert(ctx, "Unregistered doctor assignment", notification.Message); err != nil {
		// The durable notification is the source of truth; email is best
		// effort.
		s.logger.Error(err, "failed to send admin alert email", "doctor_email", req.DoctorEmail)
	}

	return &model.AssignmentResult{
		AssignedTo:   model.AdminReviewer,
		AssignmentID: assignmentID,
		Registered:   false,
		AdminAlert:   "Unregistered doctor, admin notified",
	}, nil
}

func (s *Service) publishEvent(ctx context.Context, notification *model.AdminNotification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error(err, "failed to marshal assignment event")
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAssignmentUnregisteredDoctor,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to stage assignment event")
	}
}

// PatientsForDoctor returns every patient related to a doctor: the global
// assignment records for its email plus, when the doctor is registered,
// its own assigned-patient set.
func (s *Service) PatientsForDoctor(ctx context.Context, email string) ([]model.JSONMap, error) {
	assignments, err := s.assignmentRepo.ListByDoctorEmail(ctx, email)
	if err != nil {
		return nil, apperrors.StoreUnavailable("assignment lookup", err)
	}

	patients := make([]model.JSONMap, 0, len(assignments))
	for _, assignment := range assignments {
		patients = append(patients, model.JSONMap{
			"patient_national_id": assignment.PatientNationalID,
			"doctor_email":        assignment.DoctorEmail,
			"doctor_name":         assignment.DoctorName,
			"assignment_date":     assignment.AssignmentDate,
			"notes":               assignment.Notes,
		})
	}

	if _, err := s.doctorRepo.Get(ctx, email); err == nil {
		assigned, err := s.doctorRepo.ListAssignedPatients(ctx, email)
		if err != nil {
			return nil, apperrors.StoreUnavailable("assigned patient listing", err)
		}
		for _, ap := range assigned {
			patients = append(patients, model.JSONMap{
				"patient_national_id": ap.PatientNationalID,
				"assigned_at":         ap.AssignedAt,
			})
		}
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.StoreUnavailable("doctor lookup", err)
	}

	return patients, nil
}

// Notifications lists the unregistered-doctor alerts raised for administrators.
func (s *Service) Notifications(ctx context.Context) ([]*model.AdminNotification, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("notification listing", err)
	}
	return notifications, nil
}
