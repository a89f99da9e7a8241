package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/model"
)

func TestDeskAgainstBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/patients":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Ada","email":"ada@example.com","phone":"555","insurance_provider":"Acme"}]`))
		case "/claims":
			_, _ = w.Write([]byte(`[{"id":1,"claim_number":"CLM-1","amount":"10.00","status":"pending","service_date":"2025-06-11","patient":{"id":1,"name":"Ada"}}]`))
		case "/claims/1/status":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"maintenance"}`))
		case "/sync/google-sheets":
			_, _ = w.Write([]byte(`{"insertedCount":1}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	desk := New(apiclient.NewClient(srv.URL, 5*time.Second))
	ctx := context.Background()

	require.NoError(t, desk.Patients.FetchAll(ctx))
	require.NoError(t, desk.Claims.FetchAll(ctx, ""))

	// the backend rejects the status change, the desk still reflects it
	got, err := desk.Claims.UpdateStatus(ctx, "1", model.ClaimApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimApproved, got.Status)

	n, err := desk.Sync.SyncClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap := desk.Snapshot()
	assert.Len(t, snap.Patients.Patients, 1)
	assert.Equal(t, "Ada", snap.Claims.Claims[0].PatientName)
	assert.Equal(t, model.ClaimApproved, snap.Claims.Claims[0].Status)
	assert.True(t, snap.Sync.IsConnected)

	sample := desk.Sample()
	assert.Equal(t, 1, sample.Patients)
	assert.Equal(t, 1, sample.Claims[string(model.ClaimApproved)])
	assert.Equal(t, 0, sample.Claims[string(model.ClaimPending)])
	assert.Equal(t, 1, sample.SyncHistory)
	assert.True(t, sample.Connected)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"filteredClaims"`)
	assert.Contains(t, string(raw), `"syncHistory"`)
}

func TestStoresAreIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	desk := New(apiclient.NewClient(srv.URL, time.Second))
	require.Error(t, desk.Patients.FetchAll(context.Background()))

	snap := desk.Snapshot()
	assert.NotEmpty(t, snap.Patients.Error)
	assert.Empty(t, snap.Claims.Error)
	assert.Empty(t, snap.Sync.Error)
}
