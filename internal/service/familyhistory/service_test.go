package familyhistory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinirec/clinical-api/internal/docstore/memory"
	"github.com/clinirec/clinical-api/internal/model"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/internal/service/familyhistory"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

func newService(t *testing.T) *familyhistory.Service {
	t.Helper()
	store := memory.NewStore()
	patients := repodocstore.NewPatientRepository(store)
	history := repodocstore.NewFamilyHistoryRepository(store)

	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	require.NoError(t, patients.Create(context.Background(), &model.Patient{
		NationalID: "11111111111111",
		FullName:   "Test Patient",
		Region:     "cairo",
	}))
	return familyhistory.NewService(patients, history, loc)
}

func TestAddAndListEntries(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.Add(ctx, "11111111111111", &model.FamilyHistoryRequest{
		RelativeName: "Grandfather",
		Relationship: "paternal grandfather",
		Condition:    "type 2 diabetes",
		AddedBy:      "guardian@family.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entry.ID, entry.Timestamp, "the timestamp mirrors the id")
	assert.Equal(t, "11111111111111", entry.PatientID)

	entries, err := svc.List(ctx, "11111111111111")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "type 2 diabetes", entries[0].Condition)
}

func TestAddUnknownPatient(t *testing.T) {
	svc := newService(t)

	_, err := svc.Add(context.Background(), "00000000000000", &model.FamilyHistoryRequest{
		Relationship: "mother",
		Condition:    "hypertension",
		AddedBy:      "guardian@family.com",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateGatedOnSubmitter(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.Add(ctx, "11111111111111", &model.FamilyHistoryRequest{
		Relationship: "mother",
		Condition:    "hypertension",
		AddedBy:      "guardian@family.com",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "11111111111111", entry.ID, &model.FamilyHistoryRequest{
		Relationship: "mother",
		Condition:    "resolved",
		AddedBy:      "someone-else@x.com",
	})
	assert.True(t, apperrors.IsForbidden(err))

	updated, err := svc.Update(ctx, "11111111111111", entry.ID, &model.FamilyHistoryRequest{
		Relationship: "mother",
		Condition:    "controlled hypertension",
		AddedBy:      "guardian@family.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.Equal(t, entry.Timestamp, updated.Timestamp, "updates preserve the original timestamp")
	assert.Equal(t, "controlled hypertension", updated.Condition)
}

func TestDeleteGatedOnSubmitter(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.Add(ctx, "11111111111111", &model.FamilyHistoryRequest{
		Relationship: "father",
		Condition:    "coronary artery disease",
		AddedBy:      "guardian@family.com",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, "11111111111111", entry.ID, "someone-else@x.com")
	assert.True(t, apperrors.IsForbidden(err))

	require.NoError(t, svc.Delete(ctx, "11111111111111", entry.ID, "guardian@family.com"))

	entries, err := svc.List(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteUnknownEntry(t *testing.T) {
	svc := newService(t)
	err := svc.Delete(context.Background(), "11111111111111", "2026-01-01 00:00:00", "guardian@family.com")
	assert.True(t, apperrors.IsNotFound(err))
}
