package model

type FacilityRole string

const (
	FacilityRoleHospital FacilityRole = "hospital"
	FacilityRoleClinic   FacilityRole = "clinic"
	FacilityRoleLab      FacilityRole = "lab"
	FacilityRolePharmacy FacilityRole = "pharmacy"
)

// Facility is stored under its human-readable name; FacilityID is the
// public identifier submitters use, distinct from the storage key.
type Facility struct {
	FacilityID  string       `json:"facility_id"`
	Name        string       `json:"name"`
	Role        FacilityRole `json:"role"`
	Region      string       `json:"region,omitempty"`
	City        string       `json:"city,omitempty"`
	Address     string       `json:"address,omitempty"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	Email       string       `json:"email,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
}

type CreateFacilityRequest struct {
	FacilityID  string `json:"facility_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=hospital clinic lab pharmacy"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" binding:"omitempty,email"`
}
