package model

// Assignment is the durable patient/doctor relation kept for doctors that
// have no registered profile yet. Registered doctors get the patient
// written into their own assigned-patient set instead.
type Assignment struct {
	AssignmentID      string `json:"assignment_id"`
	DoctorEmail       string `json:"doctor_email"`
	DoctorName        string `json:"doctor_name,omitempty"`
	PatientNationalID string `json:"patient_national_id"`
	AssignedTo        string `json:"assigned_to"`
	AssignmentDate    string `json:"assignment_date"`
	Notes             string `json:"notes,omitempty"`
}

type CreateAssignmentRequest struct {
	PatientNationalID string `json:"patient_national_id" binding:"required"`
	DoctorEmail       string `json:"doctor_email" binding:"required,email"`
	DoctorName        string `json:"doctor_name"`
	Notes             string `json:"notes"`
}

// AssignmentResult is returned from an assignment request. AdminAlert is
// empty when the doctor is registered.
type AssignmentResult struct {
	AssignedTo   string `json:"assigned_to"`
	AssignmentID string `json:"assignment_id"`
	Registered   bool   `json:"registered"`
	AdminAlert   string `json:"admin_alert,omitempty"`
}

// AssignedDoctor is the answer to "who reviews this patient's submissions".
type AssignedDoctor struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
