package store

import (
	"context"
	"sync"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/model"
)

func ok[T any](v T) apiclient.Response[T] {
	return apiclient.Response[T]{Success: true, Data: v, StatusCode: 200}
}

func fail[T any](msg string) apiclient.Response[T] {
	return apiclient.Response[T]{Error: msg, StatusCode: 500}
}

// calls counts invocations per method name
type calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *calls) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[name]++
}

func (c *calls) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

type fakePatientAPI struct {
	calls
	list   apiclient.Response[[]model.Patient]
	get    apiclient.Response[model.Patient]
	create apiclient.Response[model.Patient]
	update apiclient.Response[model.Patient]
	delete apiclient.Response[struct{}]
}

func (f *fakePatientAPI) List(context.Context) apiclient.Response[[]model.Patient] {
	f.hit("List")
	return f.list
}

func (f *fakePatientAPI) Get(context.Context, string) apiclient.Response[model.Patient] {
	f.hit("Get")
	return f.get
}

func (f *fakePatientAPI) Create(context.Context, model.PatientInput) apiclient.Response[model.Patient] {
	f.hit("Create")
	return f.create
}

func (f *fakePatientAPI) Update(context.Context, model.PatientUpdate) apiclient.Response[model.Patient] {
	f.hit("Update")
	return f.update
}

func (f *fakePatientAPI) Delete(context.Context, string) apiclient.Response[struct{}] {
	f.hit("Delete")
	return f.delete
}

type fakeClaimAPI struct {
	calls
	lastPatientID string
	list          apiclient.Response[[]model.Claim]
	get           apiclient.Response[model.Claim]
	create        apiclient.Response[model.Claim]
	update        apiclient.Response[model.Claim]
	updateStatus  apiclient.Response[model.Claim]
	delete        apiclient.Response[struct{}]
}

func (f *fakeClaimAPI) List(_ context.Context, patientID string) apiclient.Response[[]model.Claim] {
	f.hit("List")
	f.lastPatientID = patientID
	return f.list
}

func (f *fakeClaimAPI) Get(context.Context, string) apiclient.Response[model.Claim] {
	f.hit("Get")
	return f.get
}

func (f *fakeClaimAPI) Create(context.Context, model.ClaimInput) apiclient.Response[model.Claim] {
	f.hit("Create")
	return f.create
}

func (f *fakeClaimAPI) Update(context.Context, model.ClaimUpdate) apiclient.Response[model.Claim] {
	f.hit("Update")
	return f.update
}

func (f *fakeClaimAPI) UpdateStatus(context.Context, string, model.ClaimStatus) apiclient.Response[model.Claim] {
	f.hit("UpdateStatus")
	return f.updateStatus
}

func (f *fakeClaimAPI) Delete(context.Context, string) apiclient.Response[struct{}] {
	f.hit("Delete")
	return f.delete
}

type fakeSyncAPI struct {
	calls
	claims   apiclient.Response[int]
	patients apiclient.Response[int]
	history  apiclient.Response[[]model.SyncHistoryEntry]
	status   apiclient.Response[model.SyncStatus]
}

func (f *fakeSyncAPI) SyncClaims(context.Context) apiclient.Response[int] {
	f.hit("SyncClaims")
	return f.claims
}

func (f *fakeSyncAPI) SyncPatients(context.Context) apiclient.Response[int] {
	f.hit("SyncPatients")
	return f.patients
}

func (f *fakeSyncAPI) History(context.Context) apiclient.Response[[]model.SyncHistoryEntry] {
	f.hit("History")
	return f.history
}

func (f *fakeSyncAPI) Status(context.Context) apiclient.Response[model.SyncStatus] {
	f.hit("Status")
	return f.status
}

var (
	_ PatientAPI = (*apiclient.PatientService)(nil)
	_ ClaimAPI   = (*apiclient.ClaimService)(nil)
	_ SyncAPI    = (*apiclient.SyncService)(nil)
)
