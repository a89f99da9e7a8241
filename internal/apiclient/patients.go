package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"stealthcompany.com/claimsdesk/internal/model"
)

// PatientService exposes the /patients endpoints
type PatientService struct {
	c *Client
}

// Patients returns the patient endpoints of the client
func (c *Client) Patients() *PatientService {
	return &PatientService{c: c}
}

// List fetches every patient
func (s *PatientService) List(ctx context.Context) Response[[]model.Patient] {
	r := do[*[]wirePatient](ctx, s.c, http.MethodGet, "/patients", "/patients", nil)
	return adapt(r, patientsFromWire)
}

// Get fetches one patient
func (s *PatientService) Get(ctx context.Context, id string) Response[model.Patient] {
	r := do[*wirePatient](ctx, s.c, http.MethodGet, "/patients/{id}", "/patients/"+url.PathEscape(id), nil)
	return adapt(r, patientFromWire)
}

// Create posts a new patient and returns the stored record
func (s *PatientService) Create(ctx context.Context, in model.PatientInput) Response[model.Patient] {
	r := do[*wirePatient](ctx, s.c, http.MethodPost, "/patients", "/patients", patientToWire(in))
	return adapt(r, patientFromWire)
}

// Update replaces every field of an existing patient
func (s *PatientService) Update(ctx context.Context, in model.PatientUpdate) Response[model.Patient] {
	r := do[*wirePatient](ctx, s.c, http.MethodPut, "/patients/{id}", "/patients/"+url.PathEscape(in.ID), patientToWire(in.PatientInput))
	return adapt(r, patientFromWire)
}

// Delete removes a patient
func (s *PatientService) Delete(ctx context.Context, id string) Response[struct{}] {
	return discard(do[json.RawMessage](ctx, s.c, http.MethodDelete, "/patients/{id}", "/patients/"+url.PathEscape(id), nil))
}
