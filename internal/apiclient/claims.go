package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"stealthcompany.com/claimsdesk/internal/model"
)

// ClaimService exposes the /claims endpoints
type ClaimService struct {
	c *Client
}

// Claims returns the claim endpoints of the client
func (c *Client) Claims() *ClaimService {
	return &ClaimService{c: c}
}

// List fetches all claims, or only one patient's claims when patientID is set
func (s *ClaimService) List(ctx context.Context, patientID string) Response[[]model.Claim] {
	route, path := "/claims", "/claims"
	if patientID != "" {
		route, path = "/patients/{id}/claims", "/patients/"+url.PathEscape(patientID)+"/claims"
	}
	r := do[*[]wireClaim](ctx, s.c, http.MethodGet, route, path, nil)
	return adapt(r, claimsFromWire)
}

// Get fetches one claim
func (s *ClaimService) Get(ctx context.Context, id string) Response[model.Claim] {
	r := do[*wireClaim](ctx, s.c, http.MethodGet, "/claims/{id}", "/claims/"+url.PathEscape(id), nil)
	return adapt(r, claimFromWire)
}

// Create posts a new claim
func (s *ClaimService) Create(ctx context.Context, in model.ClaimInput) Response[model.Claim] {
	r := do[*wireClaim](ctx, s.c, http.MethodPost, "/claims", "/claims", claimToWire(in))
	return adapt(r, claimFromWire)
}

// Update replaces every field of an existing claim
func (s *ClaimService) Update(ctx context.Context, in model.ClaimUpdate) Response[model.Claim] {
	r := do[*wireClaim](ctx, s.c, http.MethodPut, "/claims/{id}", "/claims/"+url.PathEscape(in.ID), claimToWire(in.ClaimInput))
	return adapt(r, claimFromWire)
}

// UpdateStatus moves a claim to a new status
func (s *ClaimService) UpdateStatus(ctx context.Context, id string, status model.ClaimStatus) Response[model.Claim] {
	r := do[*wireClaim](ctx, s.c, http.MethodPut, "/claims/{id}/status", "/claims/"+url.PathEscape(id)+"/status", statusPayload{Status: status})
	return adapt(r, claimFromWire)
}

// Delete removes a claim
func (s *ClaimService) Delete(ctx context.Context, id string) Response[struct{}] {
	return discard(do[json.RawMessage](ctx, s.c, http.MethodDelete, "/claims/{id}", "/claims/"+url.PathEscape(id), nil))
}
