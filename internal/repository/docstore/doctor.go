package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type doctorRepository struct {
	store docstore.Store
}

func NewDoctorRepository(store docstore.Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	fields, err := toFields(doctor)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.Join(colDoctors, doctor.Email), fields)
}

func (r *doctorRepository) Get(ctx context.Context, key string) (*model.Doctor, error) {
	doc, err := r.store.Get(ctx, docstore.Join(colDoctors, key))
	if err != nil {
		return nil, err
	}
	doctor := &model.Doctor{}
	if err := fromFields(doc.Fields, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (r *doctorRepository) FindByDoctorID(ctx context.Context, doctorID string) (*model.Doctor, string, error) {
	return r.findOne(ctx, "doctor_id", doctorID)
}

func (r *doctorRepository) FindFirstByRegion(ctx context.Context, region string) (*model.Doctor, string, error) {
	return r.findOne(ctx, "region", region)
}

func (r *doctorRepository) findOne(ctx context.Context, field, value string) (*model.Doctor, string, error) {
	docs, err := r.store.Query(ctx, colDoctors, field, value, 1)
	if err != nil {
		return nil, "", err
	}
	if len(docs) == 0 {
		return nil, "", docstore.ErrNotFound
	}
	doctor := &model.Doctor{}
	if err := fromFields(docs[0].Fields, doctor); err != nil {
		return nil, "", err
	}
	return doctor, docs[0].ID, nil
}

func (r *doctorRepository) ListKeys(ctx context.Context) ([]string, error) {
	docs, err := r.store.ListDocuments(ctx, colDoctors)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		keys = append(keys, doc.ID)
	}
	return keys, nil
}

func (r *doctorRepository) AssignPatient(ctx context.Context, doctorKey, patientID, assignedAt string) error {
	fields, err := toFields(&model.AssignedPatient{
		PatientNationalID: patientID,
		AssignedAt:        assignedAt,
	})
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.Join(colDoctors, doctorKey, colAssignedPatients, patientID), fields)
}

func (r *doctorRepository) IsAssigned(ctx context.Context, doctorKey, patientID string) (bool, error) {
	_, err := r.store.Get(ctx, docstore.Join(colDoctors, doctorKey, colAssignedPatients, patientID))
	if err == docstore.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *doctorRepository) ListAssignedPatients(ctx context.Context, doctorKey string) ([]*model.AssignedPatient, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.Join(colDoctors, doctorKey, colAssignedPatients))
	if err != nil {
		return nil, err
	}
	assigned := make([]*model.AssignedPatient, 0, len(docs))
	for _, doc := range docs {
		ap := &model.AssignedPatient{}
		if err := fromFields(doc.Fields, ap); err != nil {
			return nil, err
		}
		assigned = append(assigned, ap)
	}
	return assigned, nil
}
