package model

// FamilyHistoryEntry is one hereditary-condition entry in a patient's
// family history. Unlike clinical records, family history never passes
// through review: the submitter writes it directly and stays its owner.
type FamilyHistoryEntry struct {
	ID             string `json:"id"`
	PatientID      string `json:"patient_id"`
	RelativeName   string `json:"relative_name,omitempty"`
	Relationship   string `json:"relationship"`
	Condition      string `json:"condition"`
	AgeAtDiagnosis int    `json:"age_at_diagnosis,omitempty"`
	AddedBy        string `json:"added_by"`
	Timestamp      string `json:"timestamp"`
}

type FamilyHistoryRequest struct {
	RelativeName   string `json:"relative_name"`
	Relationship   string `json:"relationship" binding:"required"`
	Condition      string `json:"condition" binding:"required"`
	AgeAtDiagnosis int    `json:"age_at_diagnosis" binding:"omitempty,gt=0"`
	AddedBy        string `json:"added_by" binding:"required"`
}
