// Package app wires the three stores over one backend client.
package app

import (
	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/internal/model"
	"stealthcompany.com/claimsdesk/internal/store"
)

// Desk is the composition root. The stores share no state.
type Desk struct {
	Patients *store.PatientStore
	Claims   *store.ClaimStore
	Sync     *store.SyncStore
}

// Snapshot is a point-in-time copy of every store
type Snapshot struct {
	Patients store.PatientState `json:"patients"`
	Claims   store.ClaimState   `json:"claims"`
	Sync     store.SyncState    `json:"sync"`
}

// New builds a desk over the given backend client
func New(client *apiclient.Client) *Desk {
	return NewWithAPIs(client.Patients(), client.Claims(), client.Sync())
}

// NewWithAPIs builds a desk over explicit backend surfaces
func NewWithAPIs(patients store.PatientAPI, claims store.ClaimAPI, sync store.SyncAPI) *Desk {
	return &Desk{
		Patients: store.NewPatientStore(patients),
		Claims:   store.NewClaimStore(claims),
		Sync:     store.NewSyncStore(sync),
	}
}

// Snapshot copies the state of all three stores.
// Each store is read atomically; the three reads are not one transaction.
func (d *Desk) Snapshot() Snapshot {
	return Snapshot{
		Patients: d.Patients.State(),
		Claims:   d.Claims.State(),
		Sync:     d.Sync.State(),
	}
}

// Sample reports store sizes for the periodic metrics collector
func (d *Desk) Sample() metrics.DeskSample {
	snap := d.Snapshot()
	counts := snap.Claims.Counts()
	return metrics.DeskSample{
		Patients: len(snap.Patients.Patients),
		Claims: map[string]int{
			string(model.ClaimPending):  counts.Pending,
			string(model.ClaimApproved): counts.Approved,
			string(model.ClaimDenied):   counts.Denied,
		},
		SyncHistory: len(snap.Sync.History),
		Connected:   snap.Sync.IsConnected,
	}
}
