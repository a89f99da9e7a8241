package model

import "fmt"

// ClaimStatus is the lifecycle state of a claim
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimDenied   ClaimStatus = "denied"
)

// Valid reports whether s is one of the known claim statuses
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimDenied:
		return true
	}
	return false
}

// IsFinal reports whether the status can no longer change.
// Approved and denied claims are final.
func (s ClaimStatus) IsFinal() bool {
	return s == ClaimApproved || s == ClaimDenied
}

// ParseClaimStatus converts a raw status string into a ClaimStatus
func ParseClaimStatus(raw string) (ClaimStatus, error) {
	s := ClaimStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid claim status %q", raw)
	}
	return s, nil
}

// StatusFilter selects which claims appear in the filtered view.
// StatusAll keeps every claim; the other values match ClaimStatus.
type StatusFilter string

const (
	StatusAll      StatusFilter = "All"
	StatusPending  StatusFilter = StatusFilter(ClaimPending)
	StatusApproved StatusFilter = StatusFilter(ClaimApproved)
	StatusDenied   StatusFilter = StatusFilter(ClaimDenied)
)

// ParseStatusFilter accepts "All" (case-insensitive "all" too) or a claim status
func ParseStatusFilter(raw string) (StatusFilter, error) {
	if raw == "" || raw == "All" || raw == "all" {
		return StatusAll, nil
	}
	if _, err := ParseClaimStatus(raw); err != nil {
		return "", fmt.Errorf("invalid status filter %q", raw)
	}
	return StatusFilter(raw), nil
}

// Matches reports whether a claim with status s passes the filter
func (f StatusFilter) Matches(s ClaimStatus) bool {
	return f == StatusAll || ClaimStatus(f) == s
}

// Claim is an insurance claim against a patient
type Claim struct {
	ID          string      `json:"id"`
	PatientID   string      `json:"patientId"`
	PatientName string      `json:"patientName"`
	ClaimNumber string      `json:"claimNumber"`
	Amount      float64     `json:"amount"`
	Status      ClaimStatus `json:"status"`
	ServiceDate string      `json:"serviceDate"`
}

// ClaimInput carries the fields of a claim create request
type ClaimInput struct {
	PatientID   string      `json:"patientId"`
	Amount      float64     `json:"amount"`
	Status      ClaimStatus `json:"status"`
	ServiceDate string      `json:"serviceDate"`
}

// ClaimUpdate is a full-field update addressed by ID
type ClaimUpdate struct {
	ID string `json:"id"`
	ClaimInput
}

// StatusCounts tallies claims per status
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
}

// Total is the number of claims counted
func (c StatusCounts) Total() int {
	return c.Pending + c.Approved + c.Denied
}

// CountByStatus counts claims per status. Unknown statuses are skipped.
func CountByStatus(claims []Claim) StatusCounts {
	var counts StatusCounts
	for _, c := range claims {
		switch c.Status {
		case ClaimPending:
			counts.Pending++
		case ClaimApproved:
			counts.Approved++
		case ClaimDenied:
			counts.Denied++
		}
	}
	return counts
}
