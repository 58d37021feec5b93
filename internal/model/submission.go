package model

// Submission routing outcomes.
const (
	SubmissionStatusCommitted = "committed"
	SubmissionStatusQueued    = "submitted_for_approval"
)

// PendingSubmission is a record awaiting a reviewer decision, stored under
// PendingApprovals/{reviewer}/{category}/{id}.
type PendingSubmission struct {
	ID                 string   `json:"id"`
	NationalID         string   `json:"national_id"`
	Record             JSONMap  `json:"record"`
	DataType           Category `json:"data_type"`
	AssignedTo         string   `json:"assigned_to"`
	AssignedDoctorName string   `json:"assigned_doctor_name,omitempty"`
	SubmittedAt        string   `json:"submitted_at"`
}

// SubmitResult reports how a submission was routed: either a direct commit
// (AddedBy and RecordKey set) or an enqueue (AssignedTo and SubmissionID set).
type SubmitResult struct {
	Status       string `json:"status"`
	AddedBy      string `json:"added_by,omitempty"`
	RecordKey    string `json:"record_key,omitempty"`
	AssignedTo   string `json:"assigned_to,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

// DecisionResult reports the outcome of an approve call.
type DecisionResult struct {
	NationalID string   `json:"national_id"`
	DataType   Category `json:"data_type"`
	RecordKey  string   `json:"record_key,omitempty"`
}

// ReviewerKind labels how a reviewer was chosen.
type ReviewerKind string

const (
	ReviewerKindDoctor   ReviewerKind = "doctor"
	ReviewerKindFacility ReviewerKind = "facility"
	ReviewerKindAdmin    ReviewerKind = "admin"
)

// AdminReviewer is the administrative sentinel used when no regional
// facility or doctor can be auto-assigned.
const AdminReviewer = "admin"

// ReviewerAssignment is the result of reviewer resolution: the identifier
// the pending submission is queued under, plus the raw doctor name hint
// when an explicit assignment (registered or not) produced it.
type ReviewerAssignment struct {
	AssignedTo string       `json:"assigned_to"`
	DoctorName string       `json:"doctor_name,omitempty"`
	Kind       ReviewerKind `json:"kind"`
}
