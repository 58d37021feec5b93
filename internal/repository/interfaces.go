package repository

import (
	"context"

	"github.com/clinirec/clinical-api/internal/model"
)

// StoredRecord is a committed clinical record together with its key.
type StoredRecord struct {
	Key    string        `json:"record_key"`
	Fields model.JSONMap `json:"record"`
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, nationalID string) (*model.Patient, error)
	SetRecord(ctx context.Context, nationalID string, category model.Category, key string, record model.JSONMap) error
	GetRecord(ctx context.Context, nationalID string, category model.Category, key string) (model.JSONMap, error)
	ListRecords(ctx context.Context, nationalID string, category model.Category) ([]*StoredRecord, error)
	DeleteRecord(ctx context.Context, nationalID string, category model.Category, key string) error
}

type DoctorRepository interface {
	// Create stores the doctor under its email key.
	Create(ctx context.Context, doctor *model.Doctor) error
	// Get fetches a doctor by storage key.
	Get(ctx context.Context, key string) (*model.Doctor, error)
	// FindByDoctorID looks a doctor up by its public doctor_id field and
	// returns the doctor with its storage key.
	FindByDoctorID(ctx context.Context, doctorID string) (*model.Doctor, string, error)
	// FindFirstByRegion returns any doctor in the region, with its key.
	FindFirstByRegion(ctx context.Context, region string) (*model.Doctor, string, error)
	// ListKeys returns the storage keys of all registered doctors.
	ListKeys(ctx context.Context) ([]string, error)
	AssignPatient(ctx context.Context, doctorKey, patientID, assignedAt string) error
	IsAssigned(ctx context.Context, doctorKey, patientID string) (bool, error)
	ListAssignedPatients(ctx context.Context, doctorKey string) ([]*model.AssignedPatient, error)
}

type FacilityRepository interface {
	// Create stores the facility under its human-readable name.
	Create(ctx context.Context, facility *model.Facility) error
	Get(ctx context.Context, name string) (*model.Facility, error)
	// FindByFacilityID looks a facility up by its public facility_id field
	// and returns the facility with its storage key.
	FindByFacilityID(ctx context.Context, facilityID string) (*model.Facility, string, error)
	// FindHospitalByRegion returns a hospital-role facility in the region,
	// with its storage key.
	FindHospitalByRegion(ctx context.Context, region string) (*model.Facility, string, error)
	// LogProcedure appends a copy of a committed record to the facility's
	// own per-patient procedure log.
	LogProcedure(ctx context.Context, facilityKey, patientID string, category model.Category, key string, record model.JSONMap) error
	ListProcedures(ctx context.Context, facilityKey, patientID string, category model.Category) ([]*StoredRecord, error)
}

type FamilyHistoryRepository interface {
	Put(ctx context.Context, nationalID string, entry *model.FamilyHistoryEntry) error
	Get(ctx context.Context, nationalID, id string) (*model.FamilyHistoryEntry, error)
	List(ctx context.Context, nationalID string) ([]*model.FamilyHistoryEntry, error)
	Delete(ctx context.Context, nationalID, id string) error
}

type AssignmentRepository interface {
	Put(ctx context.Context, assignment *model.Assignment) error
	FindByPatient(ctx context.Context, patientID string) ([]*model.Assignment, error)
	ListByDoctorEmail(ctx context.Context, email string) ([]*model.Assignment, error)
}

type PendingRepository interface {
	Put(ctx context.Context, reviewerKey string, submission *model.PendingSubmission) error
	Get(ctx context.Context, reviewerKey string, category model.Category, id string) (*model.PendingSubmission, error)
	ListForReviewer(ctx context.Context, reviewerKey string) ([]*model.PendingSubmission, error)
	ListAll(ctx context.Context) ([]*model.PendingSubmission, error)
	// Delete removes one queued copy; deleting a missing copy is a no-op.
	Delete(ctx context.Context, reviewerKey string, category model.Category, id string) error
	// ListReviewerKeys enumerates every reviewer namespace that currently
	// holds at least one queued submission.
	ListReviewerKeys(ctx context.Context) ([]string, error)
}

type ArchiveRepository interface {
	PutApproved(ctx context.Context, reviewerKey string, category model.Category, id string, entry model.JSONMap) error
	PutRejected(ctx context.Context, reviewerKey string, category model.Category, id string, entry model.JSONMap) error
}

type NotificationRepository interface {
	Put(ctx context.Context, key string, notification *model.AdminNotification) error
	List(ctx context.Context) ([]*model.AdminNotification, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, event *model.OutboxEvent) error
	MarkFailed(ctx context.Context, event *model.OutboxEvent, cause string) error
}
