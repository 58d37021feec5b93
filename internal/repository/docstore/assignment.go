package docstore

import (
	"context"
	"fmt"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type assignmentRepository struct {
	store docstore.Store
}

func NewAssignmentRepository(store docstore.Store) repository.AssignmentRepository {
	return &assignmentRepository{store: store}
}

// AssignmentDocID builds the dedup key for a global assignment document.
func AssignmentDocID(doctorEmail, patientID string) string {
	return fmt.Sprintf("%s_%s", doctorEmail, patientID)
}

func (r *assignmentRepository) Put(ctx context.Context, assignment *model.Assignment) error {
	fields, err := toFields(assignment)
	if err != nil {
		return err
	}
	docID := AssignmentDocID(assignment.DoctorEmail, assignment.PatientNationalID)
	return r.store.Set(ctx, docstore.Join(colAssignments, docID), fields)
}

func (r *assignmentRepository) FindByPatient(ctx context.Context, patientID string) ([]*model.Assignment, error) {
	return r.query(ctx, "patient_national_id", patientID)
}

func (r *assignmentRepository) ListByDoctorEmail(ctx context.Context, email string) ([]*model.Assignment, error) {
	return r.query(ctx, "doctor_email", email)
}

func (r *assignmentRepository) query(ctx context.Context, field, value string) ([]*model.Assignment, error) {
	docs, err := r.store.Query(ctx, colAssignments, field, value, 0)
	if err != nil {
		return nil, err
	}
	assignments := make([]*model.Assignment, 0, len(docs))
	for _, doc := range docs {
		assignment := &model.Assignment{}
		if err := fromFields(doc.Fields, assignment); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
