package model

import "time"

// SyncResult is one entry of the spreadsheet sync log
type SyncResult struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	RecordsSync int       `json:"recordsSync"`
}

// SyncKind names the collection exported by a sync
type SyncKind string

const (
	SyncClaims   SyncKind = "Claims"
	SyncPatients SyncKind = "Patients"
)

// SyncStatus is the result of a connectivity probe
type SyncStatus struct {
	Connected bool       `json:"connected"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
}

// SyncHistoryEntry is one row of the backend's stored sync log
type SyncHistoryEntry struct {
	Type         string    `json:"type"`
	Count        int       `json:"count"`
	InsertedRows []string  `json:"insertedRows"`
	CreatedAt    time.Time `json:"createdAt"`
}
