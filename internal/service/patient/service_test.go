package patient_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinirec/clinical-api/internal/docstore/memory"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/internal/service/patient"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

func newService(t *testing.T) (*patient.Service, repository.PatientRepository) {
	t.Helper()
	store := memory.NewStore()
	repo := repodocstore.NewPatientRepository(store)
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	return patient.NewService(repo, loc), repo
}

func TestRegisterNormalizesRegion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, &model.CreatePatientRequest{
		NationalID: "11111111111111",
		FullName:   "Test Patient",
		Region:     "  Cairo ",
	})
	require.NoError(t, err)
	assert.Equal(t, "cairo", created.Region)
	assert.NotEmpty(t, created.CreatedAt)

	stored, err := repo.Get(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "cairo", stored.Region)
}

func TestGetUnknownPatient(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Get(context.Background(), "00000000000000")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEmergencyInfoComputesAge(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.CreatePatientRequest{
		NationalID:  "11111111111111",
		FullName:    "Test Patient",
		DateOfBirth: "1990-06-15",
		BloodType:   "O+",
	})
	require.NoError(t, err)

	info, err := svc.EmergencyInfo(ctx, "11111111111111")
	require.NoError(t, err)
	require.NotNil(t, info.Age)
	assert.Greater(t, *info.Age, 30)
	assert.Equal(t, "O+", info.BloodType)
}

func TestUpdateRecordGatedOnSubmitter(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.CreatePatientRequest{
		NationalID: "11111111111111",
		FullName:   "Test Patient",
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetRecord(ctx, "11111111111111", model.CategoryRadiology, "k1", model.JSONMap{
		"test_name":  "Chest X-Ray",
		"test_date":  "2026-01-15T00:00:00+02:00",
		"added_by":   "fac-1",
		"date_added": "2026-01-15T10:00:00+02:00",
	}))

	payload := model.JSONMap{
		"test_name": "Chest X-Ray",
		"test_date": "2026-01-15",
		"findings":  "revised",
	}

	err = svc.UpdateRecord(ctx, "11111111111111", model.CategoryRadiology, "k1", payload, "someone-else")
	assert.True(t, apperrors.IsForbidden(err))

	err = svc.UpdateRecord(ctx, "11111111111111", model.CategoryRadiology, "k1", payload, "fac-1")
	require.NoError(t, err)

	updated, err := repo.GetRecord(ctx, "11111111111111", model.CategoryRadiology, "k1")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated["findings"])
	assert.Equal(t, "2026-01-15T10:00:00+02:00", updated["date_added"], "original commit timestamp survives updates")
}

func TestDeleteRecordGatedOnSubmitter(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.CreatePatientRequest{
		NationalID: "11111111111111",
		FullName:   "Test Patient",
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetRecord(ctx, "11111111111111", model.CategoryAllergies, "k1", model.JSONMap{
		"allergen": "penicillin",
		"added_by": "doc-1",
	}))

	err = svc.DeleteRecord(ctx, "11111111111111", model.CategoryAllergies, "k1", "someone-else")
	assert.True(t, apperrors.IsForbidden(err))

	err = svc.DeleteRecord(ctx, "11111111111111", model.CategoryAllergies, "k1", "doc-1")
	require.NoError(t, err)

	_, err = repo.GetRecord(ctx, "11111111111111", model.CategoryAllergies, "k1")
	assert.Error(t, err)

	err = svc.DeleteRecord(ctx, "11111111111111", model.CategoryAllergies, "k1", "doc-1")
	assert.True(t, apperrors.IsNotFound(err), "deleting a gone record is NotFound")
}
