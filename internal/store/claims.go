package store

import (
	"context"
	"fmt"

	"stealthcompany.com/claimsdesk/internal/metrics"
	"stealthcompany.com/claimsdesk/internal/model"
)

// ClaimState is a snapshot of the claim store.
// Filtered is always the derivation of Claims, StatusFilter and PatientFilter.
type ClaimState struct {
	Claims        []model.Claim      `json:"claims"`
	Filtered      []model.Claim      `json:"filteredClaims"`
	Loading       bool               `json:"loading"`
	Error         string             `json:"error,omitempty"`
	Selected      *model.Claim       `json:"selectedClaim,omitempty"`
	StatusFilter  model.StatusFilter `json:"statusFilter"`
	PatientFilter string             `json:"patientFilter,omitempty"`
}

// Counts tallies the full collection per status, ignoring both filters
func (s ClaimState) Counts() model.StatusCounts {
	return model.CountByStatus(s.Claims)
}

func (s ClaimState) clone() ClaimState {
	s.Claims = cloneSlice(s.Claims)
	s.Filtered = cloneSlice(s.Filtered)
	s.Selected = clonePtr(s.Selected)
	return s
}

// deriveClaims keeps claims matching both filters in source order
func deriveClaims(claims []model.Claim, status model.StatusFilter, patientID string) []model.Claim {
	out := make([]model.Claim, 0, len(claims))
	for _, c := range claims {
		if !status.Matches(c.Status) {
			continue
		}
		if patientID != "" && c.PatientID != patientID {
			continue
		}
		out = append(out, c)
	}
	return out
}

type claimCommand interface{ isClaimCommand() }

type (
	claimsRequested     struct{ patientID string }
	claimsLoaded        struct{ claims []model.Claim }
	claimsFetchFailed   struct{ msg string }
	claimLoaded         struct{ claim model.Claim }
	claimLoadFailed     struct{ msg string }
	claimAdded          struct{ claim model.Claim }
	claimReplaced       struct{ claim model.Claim }
	claimRemoved        struct{ id string }
	claimRequestFailed  struct{ msg string }
	claimSelected       struct{ claim *model.Claim }
	statusFilterSet     struct{ filter model.StatusFilter }
	patientFilterSet    struct{ patientID string }
	claimErrorCleared   struct{}
	claimStatusRejected struct{ msg string }
)

func (claimsRequested) isClaimCommand()     {}
func (claimsLoaded) isClaimCommand()        {}
func (claimsFetchFailed) isClaimCommand()   {}
func (claimLoaded) isClaimCommand()         {}
func (claimLoadFailed) isClaimCommand()     {}
func (claimAdded) isClaimCommand()          {}
func (claimReplaced) isClaimCommand()       {}
func (claimRemoved) isClaimCommand()        {}
func (claimRequestFailed) isClaimCommand()  {}
func (claimSelected) isClaimCommand()       {}
func (statusFilterSet) isClaimCommand()     {}
func (patientFilterSet) isClaimCommand()    {}
func (claimErrorCleared) isClaimCommand()   {}
func (claimStatusRejected) isClaimCommand() {}

// reduceClaims applies one transition and re-derives the filtered view once if
// the transition touched claims or either filter.
func reduceClaims(s ClaimState, cmd claimCommand) ClaimState {
	next, touched := transitionClaims(s, cmd)
	if touched {
		next.Filtered = deriveClaims(next.Claims, next.StatusFilter, next.PatientFilter)
	}
	return next
}

func transitionClaims(s ClaimState, cmd claimCommand) (ClaimState, bool) {
	switch c := cmd.(type) {
	case claimsRequested:
		s.Loading = true
		if c.patientID != "" {
			s.PatientFilter = c.patientID
			return s, true
		}
		return s, false
	case claimsLoaded:
		s.Claims = cloneSlice(c.claims)
		s.Loading = false
		s.Error = ""
		return s, true
	case claimsFetchFailed:
		s.Claims = []model.Claim{}
		s.Loading = false
		s.Error = c.msg
		return s, true
	case claimLoaded:
		cl := c.claim
		s.Selected = &cl
		s.Loading = false
		s.Error = ""
		return s, false
	case claimLoadFailed:
		s.Selected = nil
		s.Loading = false
		s.Error = c.msg
		return s, false
	case claimAdded:
		s.Claims = append(cloneSlice(s.Claims), c.claim)
		s.Loading = false
		s.Error = ""
		return s, true
	case claimReplaced:
		next := make([]model.Claim, len(s.Claims))
		for i, cl := range s.Claims {
			if cl.ID == c.claim.ID {
				cl = c.claim
			}
			next[i] = cl
		}
		s.Claims = next
		if s.Selected != nil && s.Selected.ID == c.claim.ID {
			cl := c.claim
			s.Selected = &cl
		}
		s.Loading = false
		s.Error = ""
		return s, true
	case claimRemoved:
		next := make([]model.Claim, 0, len(s.Claims))
		for _, cl := range s.Claims {
			if cl.ID != c.id {
				next = append(next, cl)
			}
		}
		s.Claims = next
		if s.Selected != nil && s.Selected.ID == c.id {
			s.Selected = nil
		}
		s.Loading = false
		s.Error = ""
		return s, true
	case claimRequestFailed:
		s.Loading = false
		s.Error = c.msg
		return s, false
	case claimStatusRejected:
		// rejected before any request was made, so Loading is left alone
		s.Error = c.msg
		return s, false
	case claimSelected:
		s.Selected = clonePtr(c.claim)
		return s, false
	case statusFilterSet:
		s.StatusFilter = c.filter
		return s, true
	case patientFilterSet:
		s.PatientFilter = c.patientID
		return s, true
	case claimErrorCleared:
		s.Error = ""
		return s, false
	}
	return s, false
}

// ClaimStore owns the claim collection, its filtered view and the status workflow
type ClaimStore struct {
	api ClaimAPI
	m   *machine[ClaimState, claimCommand]
}

// NewClaimStore creates an empty claim store with the All status filter
func NewClaimStore(api ClaimAPI) *ClaimStore {
	initial := ClaimState{
		Claims:       []model.Claim{},
		Filtered:     []model.Claim{},
		StatusFilter: model.StatusAll,
	}
	return &ClaimStore{
		api: api,
		m:   newMachine(initial, reduceClaims),
	}
}

// State returns a copy of the current state
func (s *ClaimStore) State() ClaimState {
	return s.m.snapshot().clone()
}

// FetchAll replaces the collection. A non-empty patientID also becomes the patient
// filter and scopes the request to that patient. An empty patientID leaves any
// existing patient filter in place.
func (s *ClaimStore) FetchAll(ctx context.Context, patientID string) error {
	s.m.dispatch(claimsRequested{patientID: patientID})

	r := s.api.List(ctx, patientID)
	if !r.Success {
		err := requestError(r, "failed to load claims")
		s.m.dispatch(claimsFetchFailed{msg: err.Message})
		record("claims", "fetch_all", err)
		return err
	}

	s.m.dispatch(claimsLoaded{claims: r.Data})
	record("claims", "fetch_all", nil)
	return nil
}

// FetchByID loads one claim into Selected without touching the collection
func (s *ClaimStore) FetchByID(ctx context.Context, id string) (*model.Claim, error) {
	s.m.dispatch(claimsRequested{})

	r := s.api.Get(ctx, id)
	if !r.Success {
		err := requestError(r, "failed to load claim")
		s.m.dispatch(claimLoadFailed{msg: err.Message})
		record("claims", "fetch_by_id", err)
		return nil, err
	}

	s.m.dispatch(claimLoaded{claim: r.Data})
	record("claims", "fetch_by_id", nil)
	cl := r.Data
	return &cl, nil
}

// Create posts a new claim and appends it on success
func (s *ClaimStore) Create(ctx context.Context, in model.ClaimInput) (*model.Claim, error) {
	s.m.dispatch(claimsRequested{})

	r := s.api.Create(ctx, in)
	if !r.Success {
		err := requestError(r, "failed to create claim")
		s.m.dispatch(claimRequestFailed{msg: err.Message})
		record("claims", "create", err)
		return nil, err
	}

	s.m.dispatch(claimAdded{claim: r.Data})
	record("claims", "create", nil)
	cl := r.Data
	return &cl, nil
}

// Update replaces every field of the matching claim
func (s *ClaimStore) Update(ctx context.Context, in model.ClaimUpdate) (*model.Claim, error) {
	s.m.dispatch(claimsRequested{})

	r := s.api.Update(ctx, in)
	if !r.Success {
		err := requestError(r, "failed to update claim")
		s.m.dispatch(claimRequestFailed{msg: err.Message})
		record("claims", "update", err)
		return nil, err
	}

	s.m.dispatch(claimReplaced{claim: r.Data})
	record("claims", "update", nil)
	cl := r.Data
	return &cl, nil
}

// UpdateStatus moves a pending claim to a new status.
//
// A claim that is already approved or denied is rejected with ErrStatusFinal and
// no request is made. When the backend call fails the local copy is updated with
// the new status anyway and returned as a success. Only when there is no local
// copy does a failed call surface as ErrClaimNotFound.
func (s *ClaimStore) UpdateStatus(ctx context.Context, id string, status model.ClaimStatus) (*model.Claim, error) {
	if !status.Valid() {
		err := fmt.Errorf("invalid claim status %q", status)
		s.m.dispatch(claimStatusRejected{msg: err.Error()})
		metrics.RecordStoreOperation("claims", "update_status", metrics.ResultRejected)
		return nil, err
	}

	var rejected bool
	s.m.decide(func(st ClaimState) claimCommand {
		if cl, ok := findClaim(st.Claims, id); ok && cl.Status.IsFinal() {
			rejected = true
			return claimStatusRejected{msg: ErrStatusFinal.Error()}
		}
		return claimsRequested{}
	})
	if rejected {
		metrics.RecordStoreOperation("claims", "update_status", metrics.ResultRejected)
		return nil, ErrStatusFinal
	}

	r := s.api.UpdateStatus(ctx, id, status)
	if r.Success {
		s.m.dispatch(claimReplaced{claim: r.Data})
		record("claims", "update_status", nil)
		cl := r.Data
		return &cl, nil
	}

	// the backend failed; reflect the change locally from the freshest copy
	var updated *model.Claim
	s.m.decide(func(st ClaimState) claimCommand {
		prev, ok := findClaim(st.Claims, id)
		if !ok {
			return claimRequestFailed{msg: ErrClaimNotFound.Error()}
		}
		prev.Status = status
		updated = &prev
		return claimReplaced{claim: prev}
	})
	if updated == nil {
		record("claims", "update_status", ErrClaimNotFound)
		return nil, ErrClaimNotFound
	}

	metrics.RecordStoreOperation("claims", "update_status", metrics.ResultFallback)
	return updated, nil
}

// Delete removes a claim. Finalized claims may be deleted.
func (s *ClaimStore) Delete(ctx context.Context, id string) error {
	s.m.dispatch(claimsRequested{})

	r := s.api.Delete(ctx, id)
	if !r.Success {
		err := requestError(r, "failed to delete claim")
		s.m.dispatch(claimRequestFailed{msg: err.Message})
		record("claims", "delete", err)
		return err
	}

	s.m.dispatch(claimRemoved{id: id})
	record("claims", "delete", nil)
	return nil
}

// SetStatusFilter changes the status filter and re-derives the view
func (s *ClaimStore) SetStatusFilter(f model.StatusFilter) {
	s.m.dispatch(statusFilterSet{filter: f})
}

// SetPatientFilter changes the patient filter; "" removes it
func (s *ClaimStore) SetPatientFilter(patientID string) {
	s.m.dispatch(patientFilterSet{patientID: patientID})
}

// SetSelected replaces the selection; nil clears it
func (s *ClaimStore) SetSelected(c *model.Claim) {
	s.m.dispatch(claimSelected{claim: c})
}

// ClearError drops the current error
func (s *ClaimStore) ClearError() {
	s.m.dispatch(claimErrorCleared{})
}

func findClaim(claims []model.Claim, id string) (model.Claim, bool) {
	for _, c := range claims {
		if c.ID == id {
			return c, true
		}
	}
	return model.Claim{}, false
}
