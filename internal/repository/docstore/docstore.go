// Package docstore implements the repository interfaces on top of the
// hierarchical document store.
package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/clinirec/clinical-api/internal/docstore"
)

// Collection roots.
const (
	colPatients           = "Patients"
	colDoctors            = "Doctors"
	colFacilities         = "Facilities"
	colAssignments        = "DoctorAssignments"
	colPending            = "PendingApprovals"
	colApproved           = "ApprovedApprovals"
	colRejected           = "RejectedApprovals"
	colOutbox             = "Outbox"
	colClinicalIndicators = "ClinicalIndicators"
	colRecords            = "Records"
	colAssignedPatients   = "AssignedPatients"
	colProcedures         = "PatientsMadeProcedures"
	colFamilyHistory      = "FamilyHistory"

	adminNotificationsCol = "AdminNotifications/unregistered_doctors/Notifications"
)

func toFields(v interface{}) (docstore.Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	fields := docstore.Fields{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return fields, nil
}

func fromFields(fields docstore.Fields, v interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
