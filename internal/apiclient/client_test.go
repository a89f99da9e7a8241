package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stealthcompany.com/claimsdesk/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListPatientsAdaptsBackendShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/patients", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 7, "name": "Ada", "email": "ada@example.com", "phone": "555", "insurance_provider": "Acme"},
		})
	})

	resp := c.Patients().List(context.Background())
	require.True(t, resp.Success, resp.Error)
	require.NoError(t, resp.Err())
	assert.Equal(t, []model.Patient{{ID: "7", Name: "Ada", Email: "ada@example.com", Phone: "555", InsuranceProvider: "Acme"}}, resp.Data)
}

func TestCreatePatientSendsSnakeCaseProvider(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme", body["insurance_provider"])
		assert.NotContains(t, body, "insuranceProvider")
		writeJSON(t, w, http.StatusCreated, map[string]any{"id": "p-1", "name": body["name"], "insurance_provider": "Acme"})
	})

	resp := c.Patients().Create(context.Background(), model.PatientInput{Name: "Ada", InsuranceProvider: "Acme"})
	require.True(t, resp.Success)
	assert.Equal(t, "p-1", resp.Data.ID)
	assert.Equal(t, "Acme", resp.Data.InsuranceProvider)
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"message field", http.StatusConflict, `{"message":"duplicate email"}`, "duplicate email"},
		{"error field", http.StatusBadRequest, `{"error":"bad input"}`, "bad input"},
		{"no body", http.StatusInternalServerError, ``, "http error: status 500"},
		{"html body", http.StatusBadGateway, `<html>oops</html>`, "http error: status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp := c.Patients().Get(context.Background(), "1")
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErr, resp.Error)
			assert.Equal(t, tt.status, resp.StatusCode)

			var apiErr *Error
			require.ErrorAs(t, resp.Err(), &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := NewClient(srv.URL, time.Second)
	srv.Close()

	resp := c.Claims().List(context.Background(), "")
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 0, resp.StatusCode)
}

func TestUndecodableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	})

	resp := c.Claims().Get(context.Background(), "1")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "failed to decode response")
}

func TestDeleteAcceptsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/claims/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	resp := c.Claims().Delete(context.Background(), "9")
	assert.True(t, resp.Success)
	assert.NoError(t, resp.Err())
}

func TestGetWithEmptyBodyFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp := c.Patients().Get(context.Background(), "1")
	assert.False(t, resp.Success)
	assert.Equal(t, "empty response from server", resp.Error)
}

func TestClaimAdapterVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.Claim
	}{
		{
			name: "nested patient and string amount",
			body: `{"id":3,"claim_number":"CLM-3","amount":"120.50","status":"pending","service_date":"2025-06-11","patient":{"id":7,"name":"Ada"}}`,
			want: model.Claim{ID: "3", PatientID: "7", PatientName: "Ada", ClaimNumber: "CLM-3", Amount: 120.5, Status: model.ClaimPending, ServiceDate: "2025-06-11"},
		},
		{
			name: "flat camelCase",
			body: `{"id":"4","claimNumber":"CLM-4","amount":99,"status":"approved","service_date":"2025-01-02","patientId":8,"patientName":"Grace"}`,
			want: model.Claim{ID: "4", PatientID: "8", PatientName: "Grace", ClaimNumber: "CLM-4", Amount: 99, Status: model.ClaimApproved, ServiceDate: "2025-01-02"},
		},
		{
			name: "snake patient id",
			body: `{"id":5,"claim_number":"CLM-5","amount":"10","status":"denied","service_date":"2025-03-04","patient_id":9}`,
			want: model.Claim{ID: "5", PatientID: "9", ClaimNumber: "CLM-5", Amount: 10, Status: model.ClaimDenied, ServiceDate: "2025-03-04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wc wireClaim
			require.NoError(t, json.Unmarshal([]byte(tt.body), &wc))
			assert.Equal(t, tt.want, claimFromWire(wc))
		})
	}
}

func TestClaimPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/claims/12", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "250.75", body["amount"])
		assert.Equal(t, float64(7), body["patientId"])
		assert.Equal(t, "2025-06-11", body["service_date"])
		assert.Equal(t, "pending", body["status"])
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 12, "amount": "250.75", "status": "pending", "patientId": 7, "service_date": "2025-06-11"})
	})

	resp := c.Claims().Update(context.Background(), model.ClaimUpdate{
		ID:         "12",
		ClaimInput: model.ClaimInput{PatientID: "7", Amount: 250.75, Status: model.ClaimPending, ServiceDate: "2025-06-11"},
	})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, 250.75, resp.Data.Amount)
}

func TestListClaimsForPatient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patients/7/claims", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []any{})
	})

	resp := c.Claims().List(context.Background(), "7")
	require.True(t, resp.Success)
	assert.Empty(t, resp.Data)
}

func TestUpdateStatusBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/claims/1/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"status": "approved"}, body)
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 1, "status": "approved", "amount": 5})
	})

	resp := c.Claims().UpdateStatus(context.Background(), "1", model.ClaimApproved)
	require.True(t, resp.Success)
	assert.Equal(t, model.ClaimApproved, resp.Data.Status)
}

func TestSyncEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sync/google-sheets":
			assert.Equal(t, http.MethodPost, r.Method)
			writeJSON(t, w, http.StatusOK, map[string]int{"insertedCount": 5})
		case "/sync/google-sheets/patients":
			writeJSON(t, w, http.StatusOK, map[string]int{"insertedCount": 2})
		case "/sync/google-sheets/history":
			assert.Equal(t, http.MethodPost, r.Method)
			writeJSON(t, w, http.StatusOK, []map[string]any{
				{"type": "Claims", "count": 2, "inserted_rows": []int{10, 11}, "created_at": "2025-06-11T17:30:00Z"},
			})
		case "/sync/status":
			writeJSON(t, w, http.StatusOK, map[string]any{"connected": true, "lastSync": "2025-06-11T17:30:00Z"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	claims := c.Sync().SyncClaims(ctx)
	require.True(t, claims.Success)
	assert.Equal(t, 5, claims.Data)

	patients := c.Sync().SyncPatients(ctx)
	require.True(t, patients.Success)
	assert.Equal(t, 2, patients.Data)

	history := c.Sync().History(ctx)
	require.True(t, history.Success)
	require.Len(t, history.Data, 1)
	assert.Equal(t, []string{"10", "11"}, history.Data[0].InsertedRows)
	assert.Equal(t, time.Date(2025, 6, 11, 17, 30, 0, 0, time.UTC), history.Data[0].CreatedAt)

	status := c.Sync().Status(ctx)
	require.True(t, status.Success)
	assert.True(t, status.Data.Connected)
	require.NotNil(t, status.Data.LastSync)
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want string
	}{
		{"default", Env{}, DefaultBaseURL},
		{"dev url", Env{AppEnv: "development", DevURL: "http://dev", URL: "http://any"}, "http://dev"},
		{"dev falls back", Env{URL: "http://any", ProdURL: "http://prod"}, "http://any"},
		{"prod url", Env{AppEnv: "production", ProdURL: "http://prod", DevURL: "http://dev"}, "http://prod"},
		{"prod falls back", Env{AppEnv: "production", DevURL: "http://dev"}, DefaultBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.env))
		})
	}
}
