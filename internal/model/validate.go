package model

import (
	"errors"
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps an input field name to its validation message
type FieldErrors map[string]string

// Error joins the field messages in a stable order
func (fe FieldErrors) Error() string {
	order := []string{"name", "email", "phone", "insuranceProvider", "patientId", "amount", "status", "serviceDate"}
	var parts []string
	for _, k := range order {
		if msg, ok := fe[k]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ValidatePatientInput checks the fields a patient form requires.
// It returns nil or a FieldErrors value.
func ValidatePatientInput(in PatientInput) error {
	errs := FieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "email is required"
	} else if !emailRx.MatchString(in.Email) {
		errs["email"] = "email is invalid"
	}
	if strings.TrimSpace(in.Phone) == "" {
		errs["phone"] = "phone is required"
	}
	if strings.TrimSpace(in.InsuranceProvider) == "" {
		errs["insuranceProvider"] = "insurance provider is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateClaimInput checks the fields a claim form requires
func ValidateClaimInput(in ClaimInput) error {
	errs := FieldErrors{}

	if strings.TrimSpace(in.PatientID) == "" {
		errs["patientId"] = "patient is required"
	}
	if in.Amount <= 0 {
		errs["amount"] = "amount must be a positive number"
	}
	if in.Status != "" && !in.Status.Valid() {
		errs["status"] = "status must be pending, approved or denied"
	}
	if strings.TrimSpace(in.ServiceDate) == "" {
		errs["serviceDate"] = "service date is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ErrMissingID is returned when an update or lookup has no ID
var ErrMissingID = errors.New("id is required")
