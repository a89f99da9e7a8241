package apiclient

import (
	"context"
	"net/http"

	"stealthcompany.com/claimsdesk/internal/model"
)

// SyncService exposes the spreadsheet export endpoints
type SyncService struct {
	c *Client
}

// Sync returns the sync endpoints of the client
func (c *Client) Sync() *SyncService {
	return &SyncService{c: c}
}

func insertedCount(r insertResult) int {
	return r.InsertedCount
}

// SyncClaims exports claims and returns the number of rows inserted
func (s *SyncService) SyncClaims(ctx context.Context) Response[int] {
	r := do[*insertResult](ctx, s.c, http.MethodPost, "/sync/google-sheets", "/sync/google-sheets", nil)
	return adapt(r, insertedCount)
}

// SyncPatients exports patients and returns the number of rows inserted
func (s *SyncService) SyncPatients(ctx context.Context) Response[int] {
	r := do[*insertResult](ctx, s.c, http.MethodPost, "/sync/google-sheets/patients", "/sync/google-sheets/patients", nil)
	return adapt(r, insertedCount)
}

// History fetches the stored sync log. The backend exposes it as a POST.
func (s *SyncService) History(ctx context.Context) Response[[]model.SyncHistoryEntry] {
	r := do[*[]wireHistoryEntry](ctx, s.c, http.MethodPost, "/sync/google-sheets/history", "/sync/google-sheets/history", nil)
	return adapt(r, historyFromWire)
}

// Status probes the spreadsheet connection
func (s *SyncService) Status(ctx context.Context) Response[model.SyncStatus] {
	r := do[*wireSyncStatus](ctx, s.c, http.MethodGet, "/sync/status", "/sync/status", nil)
	return adapt(r, syncStatusFromWire)
}
