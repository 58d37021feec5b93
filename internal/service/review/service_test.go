package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinirec/clinical-api/internal/docstore/memory"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/repository"
	repodocstore "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/internal/service/identity"
	"github.com/clinirec/clinical-api/internal/service/review"
	"github.com/clinirec/clinical-api/internal/service/reviewer"
	"github.com/clinirec/clinical-api/internal/service/submission"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
	"github.com/clinirec/clinical-api/pkg/logger"
	"github.com/clinirec/clinical-api/pkg/metrics"
)

type fixture struct {
	svc        *review.Service
	store      *memory.Store
	patients   repository.PatientRepository
	doctors    repository.DoctorRepository
	facilities repository.FacilityRepository
	pending    repository.PendingRepository
	outbox     repository.OutboxRepository
	identity   *identity.Service
	reviewer   *reviewer.Service
	loc        *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	patients := repodocstore.NewPatientRepository(store)
	doctors := repodocstore.NewDoctorRepository(store)
	facilities := repodocstore.NewFacilityRepository(store)
	assignments := repodocstore.NewAssignmentRepository(store)
	pending := repodocstore.NewPendingRepository(store)
	archive := repodocstore.NewArchiveRepository(store)
	outbox := repodocstore.NewOutboxRepository(store)

	reviewerSvc := reviewer.NewService(patients, assignments, doctors, facilities)
	identitySvc := identity.NewService(facilities, doctors)

	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	svc := review.NewService(
		patients, pending, archive, outbox,
		reviewerSvc, identitySvc,
		metrics.NewMetrics(prometheus.NewRegistry(), "test", "review"),
		logger.NewLogger(nil),
		loc,
	)
	return &fixture{
		svc:        svc,
		store:      store,
		patients:   patients,
		doctors:    doctors,
		facilities: facilities,
		pending:    pending,
		outbox:     outbox,
		identity:   identitySvc,
		reviewer:   reviewerSvc,
		loc:        loc,
	}
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.patients.Create(ctx, &model.Patient{
		NationalID: "11111111111111",
		FullName:   "Test Patient",
		Region:     "cairo",
	}))
	require.NoError(t, f.doctors.Create(ctx, &model.Doctor{
		DoctorID: "doc-1", Email: "doc@x.com", DoctorName: "Dr. D", Region: "cairo",
	}))
	require.NoError(t, f.facilities.Create(ctx, &model.Facility{
		FacilityID: "fac-1", Name: "Cairo General", Role: model.FacilityRoleHospital, Region: "cairo",
	}))
}

func (f *fixture) enqueue(t *testing.T, reviewerKey, id string, category model.Category) {
	t.Helper()
	require.NoError(t, f.pending.Put(context.Background(), reviewerKey, &model.PendingSubmission{
		ID:         id,
		NationalID: "11111111111111",
		Record: model.JSONMap{
			"test_name": "Chest X-Ray",
			"test_date": "2026-01-15T00:00:00+02:00",
			"added_by":  "guardian@family.com",
		},
		DataType:    category,
		AssignedTo:  reviewerKey,
		SubmittedAt: "2026-01-15T10:00:00+02:00",
	}))
}

func TestApproveCommitsAndPurges(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	// The same submission id is queued for the deciding doctor and a
	// second reviewer; a decision must purge both copies.
	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)
	f.enqueue(t, model.AdminReviewer, "sub-1", model.CategoryRadiology)

	result, err := f.svc.Approve(ctx, "doc@x.com", "sub-1", "")
	require.NoError(t, err)
	assert.Equal(t, "11111111111111", result.NationalID)
	assert.Equal(t, model.CategoryRadiology, result.DataType)
	require.NotEmpty(t, result.RecordKey)

	record, err := f.patients.GetRecord(ctx, "11111111111111", model.CategoryRadiology, result.RecordKey)
	require.NoError(t, err)
	assert.Equal(t, "Chest X-Ray", record["test_name"])
	assert.NotEmpty(t, record["date_added"], "commit stamps its own date_added")

	remaining, err := f.pending.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining, "every queued copy is purged")

	// An approved archive entry exists under the deciding reviewer.
	doc, err := f.store.Get(ctx, "ApprovedApprovals/doc@x.com/radiology/sub-1")
	require.NoError(t, err)
	assert.Equal(t, "doc@x.com", doc.Fields["approved_by"])

	events, err := f.outbox.ListPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventReviewDecided, events[0].EventType)
}

func TestApprovedRecordMatchesDirectCommitShape(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	subSvc := submission.NewService(
		f.patients, f.facilities, f.pending, f.outbox,
		f.identity, f.reviewer,
		metrics.NewMetrics(prometheus.NewRegistry(), "test", "submission"),
		logger.NewLogger(nil),
		f.loc,
	)

	payload := model.JSONMap{
		"test_name": "Chest X-Ray",
		"test_date": "2026-01-15T00:00:00+02:00",
	}

	direct, err := subSvc.Submit(ctx, "11111111111111", model.CategoryRadiology, payload.Copy(), "doc-1")
	require.NoError(t, err)
	require.Equal(t, model.SubmissionStatusCommitted, direct.Status)
	directRecord, err := f.patients.GetRecord(ctx, "11111111111111", model.CategoryRadiology, direct.RecordKey)
	require.NoError(t, err)

	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)
	result, err := f.svc.Approve(ctx, "doc@x.com", "sub-1", "")
	require.NoError(t, err)
	approvedRecord, err := f.patients.GetRecord(ctx, "11111111111111", model.CategoryRadiology, result.RecordKey)
	require.NoError(t, err)

	fieldNames := func(record model.JSONMap) []string {
		names := make([]string, 0, len(record))
		for name := range record {
			names = append(names, name)
		}
		return names
	}
	assert.ElementsMatch(t, fieldNames(directRecord), fieldNames(approvedRecord),
		"a committed record has the same shape whichever path it took in")
	assert.Equal(t, "Test Patient", approvedRecord["patient_name"])
	assert.Equal(t, "", approvedRecord["added_by_name"],
		"unknown submitters resolve to an empty display name")
}

func TestApproveResolvesFacilityID(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	// Queued under the facility's name; decided through its public id.
	f.enqueue(t, "Cairo General", "sub-2", model.CategoryDiagnoses)

	_, err := f.svc.Approve(ctx, "fac-1", "sub-2", "")
	require.NoError(t, err)

	remaining, err := f.pending.ListForReviewer(ctx, "Cairo General")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestApproveTwiceIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)

	_, err := f.svc.Approve(ctx, "doc@x.com", "sub-1", "")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, "doc@x.com", "sub-1", "")
	assert.True(t, apperrors.IsNotFound(err), "second decision loses the race benignly")
}

func TestApproveUnknownReviewer(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	_, err := f.svc.Approve(context.Background(), "nobody@x.com", "sub-1", "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRejectLeavesPatientRecordsUntouched(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)

	result, err := f.svc.Reject(ctx, "doc@x.com", "sub-1", "")
	require.NoError(t, err)
	assert.Empty(t, result.RecordKey)

	records, err := f.patients.ListRecords(ctx, "11111111111111", model.CategoryRadiology)
	require.NoError(t, err)
	assert.Empty(t, records)

	doc, err := f.store.Get(ctx, "RejectedApprovals/doc@x.com/radiology/sub-1")
	require.NoError(t, err)
	assert.Equal(t, "doc@x.com", doc.Fields["rejected_by"])

	remaining, err := f.pending.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPurgeHonorsReviewerNameNamespace(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)
	// A stray copy parked under a display-name namespace, passed by the
	// caller as reviewer_name.
	f.enqueue(t, "Dr. D", "sub-1", model.CategoryRadiology)

	_, err := f.svc.Approve(ctx, "doc@x.com", "sub-1", "Dr. D")
	require.NoError(t, err)

	remaining, err := f.pending.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestListForReviewer(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	f.enqueue(t, "doc@x.com", "sub-1", model.CategoryRadiology)
	f.enqueue(t, "doc@x.com", "sub-2", model.CategoryDiagnoses)
	f.enqueue(t, model.AdminReviewer, "sub-3", model.CategoryRadiology)

	mine, err := f.svc.ListForReviewer(ctx, "doc@x.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
