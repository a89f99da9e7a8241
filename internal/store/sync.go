package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/internal/model"
)

// SyncState is a snapshot of the sync store. History is newest first.
type SyncState struct {
	History     []model.SyncResult `json:"syncHistory"`
	Loading     bool               `json:"loading"`
	Error       string             `json:"error,omitempty"`
	IsConnected bool               `json:"isConnected"`
	LastSync    *time.Time         `json:"lastSync,omitempty"`
}

func (s SyncState) clone() SyncState {
	s.History = cloneSlice(s.History)
	s.LastSync = clonePtr(s.LastSync)
	return s
}

type syncCommand interface{ isSyncCommand() }

type (
	syncRequested      struct{}
	syncSucceeded      struct{ result model.SyncResult }
	syncFailed         struct{ result model.SyncResult }
	historyLoaded      struct{ history []model.SyncResult }
	syncRequestFailed  struct{ msg string }
	connectionReported struct{ status model.SyncStatus }
	syncErrorCleared   struct{}
)

func (syncRequested) isSyncCommand()      {}
func (syncSucceeded) isSyncCommand()      {}
func (syncFailed) isSyncCommand()         {}
func (historyLoaded) isSyncCommand()      {}
func (syncRequestFailed) isSyncCommand()  {}
func (connectionReported) isSyncCommand() {}
func (syncErrorCleared) isSyncCommand()   {}

func prependResult(history []model.SyncResult, r model.SyncResult) []model.SyncResult {
	out := make([]model.SyncResult, 0, len(history)+1)
	out = append(out, r)
	return append(out, history...)
}

// reduceSync is the transition function of the sync store
func reduceSync(s SyncState, cmd syncCommand) SyncState {
	switch c := cmd.(type) {
	case syncRequested:
		s.Loading = true
	case syncSucceeded:
		s.History = prependResult(s.History, c.result)
		ts := c.result.Timestamp
		s.LastSync = &ts
		s.IsConnected = true
		s.Loading = false
		s.Error = ""
	case syncFailed:
		s.History = prependResult(s.History, c.result)
		s.Loading = false
		s.Error = c.result.Message
	case historyLoaded:
		s.History = cloneSlice(c.history)
		s.Loading = false
		s.Error = ""
	case syncRequestFailed:
		s.Loading = false
		s.Error = c.msg
	case connectionReported:
		s.IsConnected = c.status.Connected
		if c.status.LastSync != nil {
			ts := *c.status.LastSync
			s.LastSync = &ts
		}
		s.Loading = false
		s.Error = ""
	case syncErrorCleared:
		s.Error = ""
	}
	return s
}

// SyncStore tracks manual spreadsheet exports and the connection to the sheet
type SyncStore struct {
	api SyncAPI
	m   *machine[SyncState, syncCommand]
	now func() time.Time
}

// NewSyncStore creates a sync store with empty history
func NewSyncStore(api SyncAPI) *SyncStore {
	return &SyncStore{
		api: api,
		m:   newMachine(SyncState{History: []model.SyncResult{}}, reduceSync),
		now: time.Now,
	}
}

// State returns a copy of the current state
func (s *SyncStore) State() SyncState {
	return s.m.snapshot().clone()
}

// SyncClaims exports claims to the spreadsheet and returns the inserted row count
func (s *SyncStore) SyncClaims(ctx context.Context) (int, error) {
	return s.run(ctx, model.SyncClaims, s.api.SyncClaims)
}

// SyncPatients exports patients to the spreadsheet and returns the inserted row count
func (s *SyncStore) SyncPatients(ctx context.Context) (int, error) {
	return s.run(ctx, model.SyncPatients, s.api.SyncPatients)
}

// run performs one export. Success and failure both land in History; a failure
// is also stored in Error and returned.
func (s *SyncStore) run(ctx context.Context, kind model.SyncKind, call func(context.Context) apiclient.Response[int]) (int, error) {
	s.m.dispatch(syncRequested{})
	op := "sync_" + strings.ToLower(string(kind))

	r := call(ctx)
	if !r.Success {
		err := requestError(r, "sync failed")
		s.m.dispatch(syncFailed{result: model.SyncResult{
			Success:   false,
			Message:   fmt.Sprintf("%s: %s", kind, err.Message),
			Timestamp: s.now(),
		}})
		record("sync", op, err)
		return 0, err
	}

	s.m.dispatch(syncSucceeded{result: model.SyncResult{
		Success:     true,
		Message:     fmt.Sprintf("%s: inserted %d rows", kind, r.Data),
		Timestamp:   s.now(),
		RecordsSync: r.Data,
	}})
	record("sync", op, nil)
	metrics.RecordSyncRecords(string(kind), r.Data)
	return r.Data, nil
}

// FetchHistory replaces History with the backend's stored log. On failure the
// existing History is kept.
func (s *SyncStore) FetchHistory(ctx context.Context) error {
	s.m.dispatch(syncRequested{})

	r := s.api.History(ctx)
	if !r.Success {
		err := requestError(r, "failed to load sync history")
		s.m.dispatch(syncRequestFailed{msg: err.Message})
		record("sync", "fetch_history", err)
		return err
	}

	s.m.dispatch(historyLoaded{history: historyResults(r.Data)})
	record("sync", "fetch_history", nil)
	return nil
}

// CheckStatus probes the spreadsheet connection. History is never touched.
func (s *SyncStore) CheckStatus(ctx context.Context) error {
	s.m.dispatch(syncRequested{})

	r := s.api.Status(ctx)
	if !r.Success {
		err := requestError(r, "failed to check sync status")
		s.m.dispatch(syncRequestFailed{msg: err.Message})
		record("sync", "check_status", err)
		return err
	}

	s.m.dispatch(connectionReported{status: r.Data})
	record("sync", "check_status", nil)
	return nil
}

// ClearError drops the current error
func (s *SyncStore) ClearError() {
	s.m.dispatch(syncErrorCleared{})
}

func historyResults(entries []model.SyncHistoryEntry) []model.SyncResult {
	out := make([]model.SyncResult, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.SyncResult{
			Success:     true,
			Message:     fmt.Sprintf("%s: inserted %d rows (%s)", e.Type, e.Count, strings.Join(e.InsertedRows, ", ")),
			Timestamp:   e.CreatedAt,
			RecordsSync: e.Count,
		})
	}
	return out
}
