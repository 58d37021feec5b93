package model

// AdminNotification alerts administrators that a patient was assigned to a
// doctor with no registered profile. Keyed {doctor_email}_{patient_id}, so
// a retried assignment overwrites the alert instead of duplicating it.
type AdminNotification struct {
	PatientNationalID string `json:"patient_national_id"`
	DoctorEmail       string `json:"doctor_email"`
	Message           string `json:"message"`
	Timestamp         string `json:"timestamp"`
}
