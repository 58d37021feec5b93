package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type patientRepository struct {
	store docstore.Store
}

func NewPatientRepository(store docstore.Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) path(nationalID string) string {
	return docstore.Join(colPatients, nationalID)
}

func (r *patientRepository) recordsCol(nationalID string, category model.Category) string {
	return docstore.Join(colPatients, nationalID, colClinicalIndicators, string(category), colRecords)
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	fields, err := toFields(patient)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, r.path(patient.NationalID), fields)
}

func (r *patientRepository) Get(ctx context.Context, nationalID string) (*model.Patient, error) {
	doc, err := r.store.Get(ctx, r.path(nationalID))
	if err != nil {
		return nil, err
	}
	patient := &model.Patient{}
	if err := fromFields(doc.Fields, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (r *patientRepository) SetRecord(ctx context.Context, nationalID string, category model.Category, key string, record model.JSONMap) error {
	return r.store.Set(ctx, docstore.Join(r.recordsCol(nationalID, category), key), docstore.Fields(record))
}

func (r *patientRepository) GetRecord(ctx context.Context, nationalID string, category model.Category, key string) (model.JSONMap, error) {
	doc, err := r.store.Get(ctx, docstore.Join(r.recordsCol(nationalID, category), key))
	if err != nil {
		return nil, err
	}
	return model.JSONMap(doc.Fields), nil
}

func (r *patientRepository) ListRecords(ctx context.Context, nationalID string, category model.Category) ([]*repository.StoredRecord, error) {
	docs, err := r.store.ListDocuments(ctx, r.recordsCol(nationalID, category))
	if err != nil {
		return nil, err
	}
	records := make([]*repository.StoredRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, &repository.StoredRecord{Key: doc.ID, Fields: model.JSONMap(doc.Fields)})
	}
	return records, nil
}

func (r *patientRepository) DeleteRecord(ctx context.Context, nationalID string, category model.Category, key string) error {
	return r.store.Delete(ctx, docstore.Join(r.recordsCol(nationalID, category), key))
}
