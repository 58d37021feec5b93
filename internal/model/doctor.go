package model

type Doctor struct {
	DoctorID       string `json:"doctor_id"`
	Email          string `json:"email"`
	DoctorName     string `json:"doctor_name"`
	Region         string `json:"region,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type CreateDoctorRequest struct {
	DoctorID       string `json:"doctor_id" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	DoctorName     string `json:"doctor_name" binding:"required"`
	Region         string `json:"region"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

// AssignedPatient is an entry in a registered doctor's assigned-patient set.
type AssignedPatient struct {
	PatientNationalID string `json:"patient_national_id"`
	AssignedAt        string `json:"assigned_at"`
}
