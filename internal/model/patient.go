package model

import (
	"time"
)

type Patient struct {
	NationalID        string             `json:"national_id"`
	FullName          string             `json:"full_name"`
	Email             string             `json:"email,omitempty"`
	PhoneNumber       string             `json:"phone_number,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	DateOfBirth       string             `json:"date_of_birth,omitempty"`
	Address           string             `json:"address,omitempty"`
	City              string             `json:"city,omitempty"`
	Region            string             `json:"region,omitempty"`
	BloodType         string             `json:"blood_type,omitempty"`
	ChronicDiseases   []string           `json:"chronic_diseases,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
	CreatedAt         string             `json:"created_at,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
}

type CreatePatientRequest struct {
	NationalID        string             `json:"national_id" binding:"required,len=14,numeric"`
	FullName          string             `json:"full_name" binding:"required"`
	Email             string             `json:"email" binding:"omitempty,email"`
	PhoneNumber       string             `json:"phone_number"`
	Gender            string             `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth       string             `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address           string             `json:"address"`
	City              string             `json:"city"`
	Region            string             `json:"region"`
	BloodType         string             `json:"blood_type"`
	ChronicDiseases   []string           `json:"chronic_diseases"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts" binding:"omitempty,dive"`
}

// EmergencyInfo is the read-only view served to first responders.
type EmergencyInfo struct {
	Patient
	Age *int `json:"age,omitempty"`
}

// Age computes the patient's age from the stored date of birth. Returns
// nil when the date is absent or unparseable.
func (p *Patient) Age(now time.Time) *int {
	if p.DateOfBirth == "" {
		return nil
	}
	dob, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return nil
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}
