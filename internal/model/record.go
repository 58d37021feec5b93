package model

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Category identifies a clinical record type.
type Category string

const (
	CategoryBloodBiomarkers Category = "bloodbiomarkers"
	CategoryRadiology       Category = "radiology"
	CategoryDiagnoses       Category = "diagnoses"
	CategoryMedications     Category = "medications"
	CategoryHypertension    Category = "hypertension"
	CategoryMeasurements    Category = "measurements"
	CategoryAllergies       Category = "allergies"
)

// Categories is the fixed enumeration order. Decision processing scans
// pending queues in this order, which makes the "first matching category
// wins" rule deterministic rather than store-dependent.
var Categories = []Category{
	CategoryBloodBiomarkers,
	CategoryRadiology,
	CategoryDiagnoses,
	CategoryMedications,
	CategoryHypertension,
	CategoryMeasurements,
	CategoryAllergies,
}

// ParseCategory validates a category string from the request path.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown record category %q", s)
}

// SubmitRecordRequest is the transport envelope for a submission: the
// submitter identity plus the category-specific payload, kept opaque until
// validated against the category's variant.
type SubmitRecordRequest struct {
	AddedBy string  `json:"added_by" binding:"required"`
	Record  JSONMap `json:"record" binding:"required"`
}

type TestResult struct {
	TestName       string      `json:"test_name" validate:"required"`
	Value          interface{} `json:"value" validate:"required"`
	Unit           string      `json:"unit,omitempty"`
	ReferenceRange string      `json:"reference_range,omitempty"`
	Flag           string      `json:"flag,omitempty"`
}

type BloodBiomarkerPayload struct {
	TestType string       `json:"test_type" validate:"required"`
	TestDate string       `json:"test_date" validate:"required"`
	Results  []TestResult `json:"results" validate:"required,min=1,dive"`
	Notes    string       `json:"notes,omitempty"`
}

type RadiologyPayload struct {
	TestName   string `json:"test_name" validate:"required"`
	TestDate   string `json:"test_date" validate:"required"`
	BodyPart   string `json:"body_part,omitempty"`
	Findings   string `json:"findings,omitempty"`
	Impression string `json:"impression,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type DiagnosisPayload struct {
	DiagnosisCode        string `json:"diagnosis_code,omitempty"`
	DiagnosisDescription string `json:"diagnosis_description" validate:"required"`
	DiagnosisDate        string `json:"diagnosis_date" validate:"required"`
	Status               string `json:"status,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

type MedicationPayload struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type HypertensionReading struct {
	Systolic  int `json:"systolic" validate:"required,gt=0"`
	Diastolic int `json:"diastolic" validate:"required,gt=0"`
	Pulse     int `json:"pulse,omitempty" validate:"omitempty,gt=0"`
}

type HypertensionPayload struct {
	ReadingDate string              `json:"reading_date" validate:"required"`
	Readings    HypertensionReading `json:"readings" validate:"required"`
	Position    string              `json:"position,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

type MeasurementPayload struct {
	MeasurementDate string  `json:"measurement_date" validate:"required"`
	HeightCM        float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0"`
	WeightKG        float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	BMI             float64 `json:"bmi,omitempty" validate:"omitempty,gt=0"`
	Notes           string  `json:"notes,omitempty"`
}

type AllergyPayload struct {
	Allergen  string `json:"allergen" validate:"required"`
	Reaction  string `json:"reaction,omitempty"`
	Severity  string `json:"severity,omitempty"`
	OnsetDate string `json:"onset_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

var validate = validator.New()

// ValidatePayload checks an opaque payload against the strict variant for
// its category. Unknown extra fields are tolerated; they travel with the
// record unchanged, as the pending-submission transport stage is opaque.
func ValidatePayload(category Category, payload JSONMap) error {
	var target interface{}
	switch category {
	case CategoryBloodBiomarkers:
		target = &BloodBiomarkerPayload{}
	case CategoryRadiology:
		target = &RadiologyPayload{}
	case CategoryDiagnoses:
		target = &DiagnosisPayload{}
	case CategoryMedications:
		target = &MedicationPayload{}
	case CategoryHypertension:
		target = &HypertensionPayload{}
	case CategoryMeasurements:
		target = &MeasurementPayload{}
	case CategoryAllergies:
		target = &AllergyPayload{}
	default:
		return fmt.Errorf("unknown record category %q", category)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("payload does not match %s schema: %w", category, err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("payload failed %s validation: %w", category, err)
	}
	return nil
}
