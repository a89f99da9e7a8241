// Package store holds the client-side state machines for patients, claims and
// spreadsheet sync. Each store is a pure reducer over unexported commands plus a
// thin effect layer that talks to the backend and feeds results back as commands.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/internal/model"
)

var (
	// ErrStatusFinal rejects a status change on an approved or denied claim
	ErrStatusFinal = errors.New("claim status is final and cannot be changed")

	// ErrClaimNotFound is returned when a status update fails and no local copy exists
	ErrClaimNotFound = errors.New("claim not found")
)

// PatientAPI is the backend surface PatientStore needs
type PatientAPI interface {
	List(ctx context.Context) apiclient.Response[[]model.Patient]
	Get(ctx context.Context, id string) apiclient.Response[model.Patient]
	Create(ctx context.Context, in model.PatientInput) apiclient.Response[model.Patient]
	Update(ctx context.Context, in model.PatientUpdate) apiclient.Response[model.Patient]
	Delete(ctx context.Context, id string) apiclient.Response[struct{}]
}

// ClaimAPI is the backend surface ClaimStore needs
type ClaimAPI interface {
	List(ctx context.Context, patientID string) apiclient.Response[[]model.Claim]
	Get(ctx context.Context, id string) apiclient.Response[model.Claim]
	Create(ctx context.Context, in model.ClaimInput) apiclient.Response[model.Claim]
	Update(ctx context.Context, in model.ClaimUpdate) apiclient.Response[model.Claim]
	UpdateStatus(ctx context.Context, id string, status model.ClaimStatus) apiclient.Response[model.Claim]
	Delete(ctx context.Context, id string) apiclient.Response[struct{}]
}

// SyncAPI is the backend surface SyncStore needs
type SyncAPI interface {
	SyncClaims(ctx context.Context) apiclient.Response[int]
	SyncPatients(ctx context.Context) apiclient.Response[int]
	History(ctx context.Context) apiclient.Response[[]model.SyncHistoryEntry]
	Status(ctx context.Context) apiclient.Response[model.SyncStatus]
}

// machine is a mutex-guarded state cell driven by a pure reducer.
// Reducers never mutate slices in place, so states handed out share no writable memory.
type machine[S, C any] struct {
	mu     sync.Mutex
	state  S
	reduce func(S, C) S
}

func newMachine[S, C any](initial S, reduce func(S, C) S) *machine[S, C] {
	return &machine[S, C]{state: initial, reduce: reduce}
}

func (m *machine[S, C]) dispatch(cmds ...C) S {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cmd := range cmds {
		m.state = m.reduce(m.state, cmd)
	}
	return m.state
}

// decide builds a command from the current state and applies it atomically
func (m *machine[S, C]) decide(fn func(S) C) S {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = m.reduce(m.state, fn(m.state))
	return m.state
}

func (m *machine[S, C]) snapshot() S {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// requestError turns a failed response into an error, substituting fallback for a blank message
func requestError[T any](r apiclient.Response[T], fallback string) *apiclient.Error {
	msg := r.Error
	if msg == "" {
		msg = fallback
	}
	return &apiclient.Error{StatusCode: r.StatusCode, Message: msg}
}

func record(store, op string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		log.Warn().
			Err(err).
			Str("store", store).
			Str("operation", op).
			Msg("Store operation failed")
	}
	metrics.RecordStoreOperation(store, op, result)
}

// cloneSlice copies in; the result is never nil so snapshots encode as []
func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func clonePtr[T any](in *T) *T {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
