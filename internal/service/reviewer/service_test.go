package reviewer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinirec/clinical-api/internal/docstore/memory"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/internal/service/reviewer"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

type fixture struct {
	svc         *reviewer.Service
	patients    repository.PatientRepository
	doctors     repository.DoctorRepository
	facilities  repository.FacilityRepository
	assignments repository.AssignmentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	patients := repodocstore.NewPatientRepository(store)
	doctors := repodocstore.NewDoctorRepository(store)
	facilities := repodocstore.NewFacilityRepository(store)
	assignments := repodocstore.NewAssignmentRepository(store)
	return &fixture{
		svc:         reviewer.NewService(patients, assignments, doctors, facilities),
		patients:    patients,
		doctors:     doctors,
		facilities:  facilities,
		assignments: assignments,
	}
}

func (f *fixture) addPatient(t *testing.T, nationalID, region string) {
	t.Helper()
	require.NoError(t, f.patients.Create(context.Background(), &model.Patient{
		NationalID: nationalID,
		FullName:   "Test Patient",
		Region:     region,
	}))
}

func TestResolveReviewerUnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ResolveReviewer(context.Background(), "00000000000000")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResolveReviewerPrefersExplicitAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", "Cairo")

	// Even with a regional hospital available, the explicit assignment
	// wins, and the email is used verbatim although the doctor is not
	// registered.
	require.NoError(t, f.facilities.Create(ctx, &model.Facility{
		FacilityID: "fac-1", Name: "Cairo General", Role: model.FacilityRoleHospital, Region: "cairo",
	}))
	require.NoError(t, f.assignments.Put(ctx, &model.Assignment{
		AssignmentID:      "a1",
		DoctorEmail:       "ghost@x.com",
		DoctorName:        "Dr. Ghost",
		PatientNationalID: "11111111111111",
	}))

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "ghost@x.com", got.AssignedTo)
	assert.Equal(t, "Dr. Ghost", got.DoctorName)
	assert.Equal(t, model.ReviewerKindDoctor, got.Kind)
}

func TestResolveReviewerUsesRegisteredProfileName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", "Cairo")

	require.NoError(t, f.doctors.Create(ctx, &model.Doctor{
		DoctorID: "doc-1", Email: "real@x.com", DoctorName: "Dr. Registered",
	}))
	require.NoError(t, f.assignments.Put(ctx, &model.Assignment{
		AssignmentID:      "a1",
		DoctorEmail:       "real@x.com",
		DoctorName:        "Stale Name",
		PatientNationalID: "11111111111111",
	}))

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "real@x.com", got.AssignedTo)
	assert.Equal(t, "Dr. Registered", got.DoctorName)
}

func TestResolveReviewerFindsDoctorSideAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", "Cairo")

	require.NoError(t, f.doctors.Create(ctx, &model.Doctor{
		DoctorID: "doc-1", Email: "set@x.com", DoctorName: "Dr. Set",
	}))
	require.NoError(t, f.doctors.AssignPatient(ctx, "set@x.com", "11111111111111", "2026-01-01T00:00:00Z"))

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "set@x.com", got.AssignedTo)
	assert.Equal(t, "Dr. Set", got.DoctorName)
}

func TestResolveReviewerRegionalHospitalFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", " Cairo ")

	// Clinics never review; only hospital-role facilities qualify.
	require.NoError(t, f.facilities.Create(ctx, &model.Facility{
		FacilityID: "fac-0", Name: "Cairo Clinic", Role: model.FacilityRoleClinic, Region: "cairo",
	}))
	require.NoError(t, f.facilities.Create(ctx, &model.Facility{
		FacilityID: "fac-1", Name: "Cairo General", Role: model.FacilityRoleHospital, Region: "cairo",
	}))

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "Cairo General", got.AssignedTo)
	assert.Equal(t, model.ReviewerKindFacility, got.Kind)
}

func TestResolveReviewerRegionalDoctorFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", "giza")

	require.NoError(t, f.doctors.Create(ctx, &model.Doctor{
		DoctorID: "doc-2", Email: "giza@x.com", DoctorName: "Dr. Giza", Region: "giza",
	}))

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, "giza@x.com", got.AssignedTo)
	assert.Equal(t, model.ReviewerKindDoctor, got.Kind)
}

func TestResolveReviewerAdminFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPatient(t, "11111111111111", "")

	got, err := f.svc.ResolveReviewer(ctx, "11111111111111")
	require.NoError(t, err)
	assert.Equal(t, model.AdminReviewer, got.AssignedTo)
	assert.Equal(t, model.ReviewerKindAdmin, got.Kind)
}

func TestResolveReviewerKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.facilities.Create(ctx, &model.Facility{
		FacilityID: "fac-1", Name: "Cairo General", Role: model.FacilityRoleHospital,
	}))
	require.NoError(t, f.doctors.Create(ctx, &model.Doctor{
		DoctorID: "doc-1", Email: "doc@x.com", DoctorName: "Dr. D",
	}))

	key, err := f.svc.ResolveReviewerKey(ctx, "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "Cairo General", key, "facilities queue under their name")

	key, err = f.svc.ResolveReviewerKey(ctx, "doc@x.com")
	require.NoError(t, err)
	assert.Equal(t, "doc@x.com", key)

	key, err = f.svc.ResolveReviewerKey(ctx, model.AdminReviewer)
	require.NoError(t, err)
	assert.Equal(t, model.AdminReviewer, key)

	_, err = f.svc.ResolveReviewerKey(ctx, "nobody@x.com")
	assert.True(t, apperrors.IsNotFound(err))
}
