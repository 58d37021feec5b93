package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cairo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	return loc
}

func TestNormalizePayloadWidensBareDates(t *testing.T) {
	loc := cairo(t)
	out := NormalizePayload(JSONMap{
		"test_date": "2026-01-15",
		"notes":     "not a date",
		"count":     float64(3),
	}, loc)

	want := time.Date(2026, 1, 15, 0, 0, 0, 0, loc).Format(time.RFC3339)
	assert.Equal(t, want, out["test_date"])
	assert.Equal(t, "not a date", out["notes"])
	assert.Equal(t, float64(3), out["count"])
}

func TestNormalizePayloadRecursesIntoNestedValues(t *testing.T) {
	loc := cairo(t)
	out := NormalizePayload(JSONMap{
		"results": []interface{}{
			map[string]interface{}{"sampled_at": "2026-01-15 08:30:00"},
		},
	}, loc)

	results := out["results"].([]interface{})
	nested := results[0].(JSONMap)
	want := time.Date(2026, 1, 15, 8, 30, 0, 0, loc).Format(time.RFC3339)
	assert.Equal(t, want, nested["sampled_at"])
}

func TestNormalizePayloadKeepsRFC3339(t *testing.T) {
	loc := cairo(t)
	stamp := "2026-01-15T10:00:00+02:00"
	out := NormalizePayload(JSONMap{"test_date": stamp}, loc)
	assert.Equal(t, stamp, out["test_date"])
}

func TestCommitKeyFormat(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "2026-03-09 14:05:09", CommitKey(at))
}

func TestNormalizeRegion(t *testing.T) {
	assert.Equal(t, "cairo", NormalizeRegion("  Cairo "))
	assert.Equal(t, "", NormalizeRegion(""))
}

func TestPatientAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	p := &Patient{DateOfBirth: "1990-09-02"}
	age := p.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 35, *age, "birthday not reached yet this year")

	p = &Patient{DateOfBirth: "1990-09-01"}
	age = p.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 36, *age)

	p = &Patient{}
	assert.Nil(t, p.Age(now))
}
