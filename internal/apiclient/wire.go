package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"stealthcompany.com/claimsdesk/internal/model"
)

var jsonNull = []byte("null")

// flexString decodes a JSON string or number into its string form.
// Backend ids are numeric but the desk treats them as opaque strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat decodes a JSON number or numeric string. Decimal columns arrive as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func firstNonEmpty[S ~string](values ...S) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

type wirePatient struct {
	ID                   flexString `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	InsuranceProvider    string     `json:"insurance_provider"`
	InsuranceProviderAlt string     `json:"insuranceProvider"`
}

func patientFromWire(p wirePatient) model.Patient {
	return model.Patient{
		ID:                string(p.ID),
		Name:              p.Name,
		Email:             p.Email,
		Phone:             p.Phone,
		InsuranceProvider: firstNonEmpty(p.InsuranceProvider, p.InsuranceProviderAlt),
	}
}

func patientsFromWire(ps []wirePatient) []model.Patient {
	out := make([]model.Patient, 0, len(ps))
	for _, p := range ps {
		out = append(out, patientFromWire(p))
	}
	return out
}

type patientPayload struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	InsuranceProvider string `json:"insurance_provider"`
}

func patientToWire(in model.PatientInput) patientPayload {
	return patientPayload{
		Name:              in.Name,
		Email:             in.Email,
		Phone:             in.Phone,
		InsuranceProvider: in.InsuranceProvider,
	}
}

type wireClaim struct {
	ID             flexString   `json:"id"`
	ClaimNumber    flexString   `json:"claim_number"`
	ClaimNumberAlt flexString   `json:"claimNumber"`
	Amount         flexFloat    `json:"amount"`
	Status         string       `json:"status"`
	ServiceDate    string       `json:"service_date"`
	ServiceDateAlt string       `json:"serviceDate"`
	Patient        *wirePatient `json:"patient"`
	PatientID      flexString   `json:"patientId"`
	PatientIDSnake flexString   `json:"patient_id"`
	PatientName    string       `json:"patientName"`
}

// claimFromWire flattens the nested patient when the backend joins it in
func claimFromWire(c wireClaim) model.Claim {
	var nestedID flexString
	var nestedName string
	if c.Patient != nil {
		nestedID = c.Patient.ID
		nestedName = c.Patient.Name
	}
	return model.Claim{
		ID:          string(c.ID),
		PatientID:   firstNonEmpty(nestedID, c.PatientID, c.PatientIDSnake),
		PatientName: firstNonEmpty(nestedName, c.PatientName),
		ClaimNumber: firstNonEmpty(c.ClaimNumber, c.ClaimNumberAlt),
		Amount:      float64(c.Amount),
		Status:      model.ClaimStatus(c.Status),
		ServiceDate: firstNonEmpty(c.ServiceDate, c.ServiceDateAlt),
	}
}

func claimsFromWire(cs []wireClaim) []model.Claim {
	out := make([]model.Claim, 0, len(cs))
	for _, c := range cs {
		out = append(out, claimFromWire(c))
	}
	return out
}

type claimPayload struct {
	Amount      string            `json:"amount"`
	Status      model.ClaimStatus `json:"status,omitempty"`
	ServiceDate string            `json:"service_date"`
	PatientID   any               `json:"patientId"`
}

// claimToWire sends the amount as a decimal string and a numeric patient id when it is one
func claimToWire(in model.ClaimInput) claimPayload {
	var patientID any = in.PatientID
	if n, err := strconv.ParseInt(in.PatientID, 10, 64); err == nil {
		patientID = n
	}
	return claimPayload{
		Amount:      strconv.FormatFloat(in.Amount, 'f', -1, 64),
		Status:      in.Status,
		ServiceDate: in.ServiceDate,
		PatientID:   patientID,
	}
}

type statusPayload struct {
	Status model.ClaimStatus `json:"status"`
}

type insertResult struct {
	InsertedCount int `json:"insertedCount"`
}

type wireHistoryEntry struct {
	Type         string       `json:"type"`
	Count        int          `json:"count"`
	InsertedRows []flexString `json:"inserted_rows"`
	CreatedAt    string       `json:"created_at"`
}

func historyFromWire(rows []wireHistoryEntry) []model.SyncHistoryEntry {
	out := make([]model.SyncHistoryEntry, 0, len(rows))
	for _, r := range rows {
		inserted := make([]string, 0, len(r.InsertedRows))
		for _, id := range r.InsertedRows {
			inserted = append(inserted, string(id))
		}
		created, _ := model.ParseDate(r.CreatedAt)
		out = append(out, model.SyncHistoryEntry{
			Type:         r.Type,
			Count:        r.Count,
			InsertedRows: inserted,
			CreatedAt:    created,
		})
	}
	return out
}

type wireSyncStatus struct {
	Connected bool   `json:"connected"`
	LastSync  string `json:"lastSync"`
}

func syncStatusFromWire(s wireSyncStatus) model.SyncStatus {
	out := model.SyncStatus{Connected: s.Connected}
	if t, ok := model.ParseDate(s.LastSync); ok {
		out.LastSync = &t
	}
	return out
}
