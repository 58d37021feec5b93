package docstore

import (
	"context"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
)

type facilityRepository struct {
	store docstore.Store
}

func NewFacilityRepository(store docstore.Store) repository.FacilityRepository {
	return &facilityRepository{store: store}
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	fields, err := toFields(facility)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.Join(colFacilities, facility.Name), fields)
}

func (r *facilityRepository) Get(ctx context.Context, name string) (*model.Facility, error) {
	doc, err := r.store.Get(ctx, docstore.Join(colFacilities, name))
	if err != nil {
		return nil, err
	}
	facility := &model.Facility{}
	if err := fromFields(doc.Fields, facility); err != nil {
		return nil, err
	}
	return facility, nil
}

func (r *facilityRepository) FindByFacilityID(ctx context.Context, facilityID string) (*model.Facility, string, error) {
	docs, err := r.store.Query(ctx, colFacilities, "facility_id", facilityID, 1)
	if err != nil {
		return nil, "", err
	}
	if len(docs) == 0 {
		return nil, "", docstore.ErrNotFound
	}
	facility := &model.Facility{}
	if err := fromFields(docs[0].Fields, facility); err != nil {
		return nil, "", err
	}
	return facility, docs[0].ID, nil
}

func (r *facilityRepository) FindHospitalByRegion(ctx context.Context, region string) (*model.Facility, string, error) {
	// The store supports a single equality clause, so filter the region
	// matches by role here.
	docs, err := r.store.Query(ctx, colFacilities, "region", region, 0)
	if err != nil {
		return nil, "", err
	}
	for _, doc := range docs {
		facility := &model.Facility{}
		if err := fromFields(doc.Fields, facility); err != nil {
			return nil, "", err
		}
		if facility.Role == model.FacilityRoleHospital {
			return facility, doc.ID, nil
		}
	}
	return nil, "", docstore.ErrNotFound
}

func (r *facilityRepository) proceduresCol(facilityKey, patientID string, category model.Category) string {
	return docstore.Join(colFacilities, facilityKey, colProcedures, patientID, string(category))
}

func (r *facilityRepository) LogProcedure(ctx context.Context, facilityKey, patientID string, category model.Category, key string, record model.JSONMap) error {
	return r.store.Set(ctx, docstore.Join(r.proceduresCol(facilityKey, patientID, category), key), docstore.Fields(record))
}

func (r *facilityRepository) ListProcedures(ctx context.Context, facilityKey, patientID string, category model.Category) ([]*repository.StoredRecord, error) {
	docs, err := r.store.ListDocuments(ctx, r.proceduresCol(facilityKey, patientID, category))
	if err != nil {
		return nil, err
	}
	records := make([]*repository.StoredRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, &repository.StoredRecord{Key: doc.ID, Fields: model.JSONMap(doc.Fields)})
	}
	return records, nil
}
