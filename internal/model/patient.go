package model

// Patient is a patient record as seen by the desk. IDs are server-assigned and opaque.
type Patient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	InsuranceProvider string `json:"insuranceProvider"`
}

// PatientInput carries the fields of a patient create request
type PatientInput struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	InsuranceProvider string `json:"insuranceProvider"`
}

// PatientUpdate is a full-field update addressed by ID
type PatientUpdate struct {
	ID string `json:"id"`
	PatientInput
}
