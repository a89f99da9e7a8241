package console

import (
	"net/http"

	"github.com/gorilla/mux"

	"stealthcompany.com/claimsdesk/internal/model"
	"stealthcompany.com/claimsdesk/internal/store"
)

// claimsView is the claims page payload: the filtered list plus tab counts
type claimsView struct {
	Claims        []model.Claim      `json:"claims"`
	Counts        model.StatusCounts `json:"counts"`
	StatusFilter  model.StatusFilter `json:"statusFilter"`
	PatientFilter string             `json:"patientFilter,omitempty"`
}

func newClaimsView(st store.ClaimState) claimsView {
	return claimsView{
		Claims:        st.Filtered,
		Counts:        st.Counts(),
		StatusFilter:  st.StatusFilter,
		PatientFilter: st.PatientFilter,
	}
}

func (s *Server) listPatients(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Patients.FetchAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, s.desk.Patients.State().Patients)
}

func (s *Server) getPatient(w http.ResponseWriter, r *http.Request) {
	p, err := s.desk.Patients.FetchByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) createPatient(w http.ResponseWriter, r *http.Request) {
	var in model.PatientInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := model.ValidatePatientInput(in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.desk.Patients.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (s *Server) updatePatient(w http.ResponseWriter, r *http.Request) {
	var in model.PatientInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := model.ValidatePatientInput(in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.desk.Patients.Update(r.Context(), model.PatientUpdate{ID: mux.Vars(r)["id"], PatientInput: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) deletePatient(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Patients.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) listPatientClaims(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Claims.FetchAll(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newClaimsView(s.desk.Claims.State()))
}

// listClaims applies ?status= before fetching; ?patientId= scopes the fetch
func (s *Server) listClaims(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("status") {
		f, err := model.ParseStatusFilter(q.Get("status"))
		if err != nil {
			writeError(w, r, badRequestError{msg: err.Error()})
			return
		}
		s.desk.Claims.SetStatusFilter(f)
	}

	if err := s.desk.Claims.FetchAll(r.Context(), q.Get("patientId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newClaimsView(s.desk.Claims.State()))
}

type filterRequest struct {
	Status    *string `json:"status"`
	PatientID *string `json:"patientId"`
}

// setClaimFilter changes filters locally; an empty patientId removes the patient filter
func (s *Server) setClaimFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Status != nil {
		f, err := model.ParseStatusFilter(*req.Status)
		if err != nil {
			writeError(w, r, badRequestError{msg: err.Error()})
			return
		}
		s.desk.Claims.SetStatusFilter(f)
	}
	if req.PatientID != nil {
		s.desk.Claims.SetPatientFilter(*req.PatientID)
	}

	writeData(w, http.StatusOK, newClaimsView(s.desk.Claims.State()))
}

func (s *Server) getClaim(w http.ResponseWriter, r *http.Request) {
	c, err := s.desk.Claims.FetchByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func decodeClaimInput(r *http.Request) (model.ClaimInput, error) {
	var in model.ClaimInput
	if err := decodeBody(r, &in); err != nil {
		return in, err
	}
	if in.Status == "" {
		in.Status = model.ClaimPending
	}
	if err := model.ValidateClaimInput(in); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Server) createClaim(w http.ResponseWriter, r *http.Request) {
	in, err := decodeClaimInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.desk.Claims.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (s *Server) updateClaim(w http.ResponseWriter, r *http.Request) {
	in, err := decodeClaimInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.desk.Claims.Update(r.Context(), model.ClaimUpdate{ID: mux.Vars(r)["id"], ClaimInput: in})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) deleteClaim(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Claims.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateClaimStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := model.ParseClaimStatus(req.Status)
	if err != nil {
		writeError(w, r, badRequestError{msg: err.Error()})
		return
	}

	c, err := s.desk.Claims.UpdateStatus(r.Context(), mux.Vars(r)["id"], status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

type syncResponse struct {
	InsertedCount int `json:"insertedCount"`
}

func (s *Server) syncClaims(w http.ResponseWriter, r *http.Request) {
	n, err := s.desk.Sync.SyncClaims(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, syncResponse{InsertedCount: n})
}

func (s *Server) syncPatients(w http.ResponseWriter, r *http.Request) {
	n, err := s.desk.Sync.SyncPatients(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, syncResponse{InsertedCount: n})
}

func (s *Server) syncHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Sync.FetchHistory(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, s.desk.Sync.State().History)
}

func (s *Server) syncStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Sync.CheckStatus(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	st := s.desk.Sync.State()
	writeData(w, http.StatusOK, model.SyncStatus{Connected: st.IsConnected, LastSync: st.LastSync})
}
