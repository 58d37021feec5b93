package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("radiology")
	require.NoError(t, err)
	assert.Equal(t, CategoryRadiology, c)

	_, err = ParseCategory("xrays")
	assert.Error(t, err)
}

func TestValidatePayloadRadiology(t *testing.T) {
	err := ValidatePayload(CategoryRadiology, JSONMap{
		"test_name": "Chest X-Ray",
		"test_date": "2026-01-15",
	})
	assert.NoError(t, err)

	err = ValidatePayload(CategoryRadiology, JSONMap{
		"test_name": "Chest X-Ray",
	})
	assert.Error(t, err, "missing test_date must fail")
}

func TestValidatePayloadBloodBiomarkers(t *testing.T) {
	err := ValidatePayload(CategoryBloodBiomarkers, JSONMap{
		"test_type": "CBC",
		"test_date": "2026-01-15",
		"results": []interface{}{
			map[string]interface{}{"test_name": "HGB", "value": 13.5, "unit": "g/dL"},
		},
	})
	assert.NoError(t, err)

	err = ValidatePayload(CategoryBloodBiomarkers, JSONMap{
		"test_type": "CBC",
		"test_date": "2026-01-15",
		"results":   []interface{}{},
	})
	assert.Error(t, err, "empty results must fail")
}

func TestValidatePayloadToleratesExtraFields(t *testing.T) {
	err := ValidatePayload(CategoryAllergies, JSONMap{
		"allergen":     "penicillin",
		"severity":     "high",
		"custom_field": "carried through untouched",
	})
	assert.NoError(t, err)
}

func TestValidatePayloadHypertension(t *testing.T) {
	err := ValidatePayload(CategoryHypertension, JSONMap{
		"reading_date": "2026-02-01",
		"readings":     map[string]interface{}{"systolic": 120, "diastolic": 80},
	})
	assert.NoError(t, err)

	err = ValidatePayload(CategoryHypertension, JSONMap{
		"reading_date": "2026-02-01",
		"readings":     map[string]interface{}{"systolic": 120},
	})
	assert.Error(t, err, "missing diastolic must fail")
}
