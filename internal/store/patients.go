package store

import (
	"context"

	"stealthcompany.com/claimsdesk/internal/model"
)

// PatientState is a snapshot of the patient store
type PatientState struct {
	Patients []model.Patient `json:"patients"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Selected *model.Patient  `json:"selectedPatient,omitempty"`
}

func (s PatientState) clone() PatientState {
	s.Patients = cloneSlice(s.Patients)
	s.Selected = clonePtr(s.Selected)
	return s
}

type patientCommand interface{ isPatientCommand() }

type (
	patientsRequested    struct{}
	patientsLoaded       struct{ patients []model.Patient }
	patientsFetchFailed  struct{ msg string }
	patientLoaded        struct{ patient model.Patient }
	patientLoadFailed    struct{ msg string }
	patientAdded         struct{ patient model.Patient }
	patientReplaced      struct{ patient model.Patient }
	patientRemoved       struct{ id string }
	patientRequestFailed struct{ msg string }
	patientSelected      struct{ patient *model.Patient }
	patientErrorCleared  struct{}
)

func (patientsRequested) isPatientCommand()    {}
func (patientsLoaded) isPatientCommand()       {}
func (patientsFetchFailed) isPatientCommand()  {}
func (patientLoaded) isPatientCommand()        {}
func (patientLoadFailed) isPatientCommand()    {}
func (patientAdded) isPatientCommand()         {}
func (patientReplaced) isPatientCommand()      {}
func (patientRemoved) isPatientCommand()       {}
func (patientRequestFailed) isPatientCommand() {}
func (patientSelected) isPatientCommand()      {}
func (patientErrorCleared) isPatientCommand()  {}

// reducePatients is the transition function of the patient store
func reducePatients(s PatientState, cmd patientCommand) PatientState {
	switch c := cmd.(type) {
	case patientsRequested:
		s.Loading = true
	case patientsLoaded:
		s.Patients = cloneSlice(c.patients)
		s.Loading = false
		s.Error = ""
	case patientsFetchFailed:
		// a failed fetch discards whatever was loaded before
		s.Patients = []model.Patient{}
		s.Loading = false
		s.Error = c.msg
	case patientLoaded:
		p := c.patient
		s.Selected = &p
		s.Loading = false
		s.Error = ""
	case patientLoadFailed:
		s.Selected = nil
		s.Loading = false
		s.Error = c.msg
	case patientAdded:
		s.Patients = append(cloneSlice(s.Patients), c.patient)
		s.Loading = false
		s.Error = ""
	case patientReplaced:
		next := make([]model.Patient, len(s.Patients))
		for i, p := range s.Patients {
			if p.ID == c.patient.ID {
				p = c.patient
			}
			next[i] = p
		}
		s.Patients = next
		if s.Selected != nil && s.Selected.ID == c.patient.ID {
			p := c.patient
			s.Selected = &p
		}
		s.Loading = false
		s.Error = ""
	case patientRemoved:
		next := make([]model.Patient, 0, len(s.Patients))
		for _, p := range s.Patients {
			if p.ID != c.id {
				next = append(next, p)
			}
		}
		s.Patients = next
		if s.Selected != nil && s.Selected.ID == c.id {
			s.Selected = nil
		}
		s.Loading = false
		s.Error = ""
	case patientRequestFailed:
		s.Loading = false
		s.Error = c.msg
	case patientSelected:
		s.Selected = clonePtr(c.patient)
	case patientErrorCleared:
		s.Error = ""
	}
	return s
}

// PatientStore owns the patient collection and the current selection
type PatientStore struct {
	api PatientAPI
	m   *machine[PatientState, patientCommand]
}

// NewPatientStore creates an empty patient store
func NewPatientStore(api PatientAPI) *PatientStore {
	return &PatientStore{
		api: api,
		m:   newMachine(PatientState{Patients: []model.Patient{}}, reducePatients),
	}
}

// State returns a copy of the current state
func (s *PatientStore) State() PatientState {
	return s.m.snapshot().clone()
}

// FetchAll replaces the collection with the server's list.
// On failure the collection is emptied and Error is set.
func (s *PatientStore) FetchAll(ctx context.Context) error {
	s.m.dispatch(patientsRequested{})

	r := s.api.List(ctx)
	if !r.Success {
		err := requestError(r, "failed to load patients")
		s.m.dispatch(patientsFetchFailed{msg: err.Message})
		record("patients", "fetch_all", err)
		return err
	}

	s.m.dispatch(patientsLoaded{patients: r.Data})
	record("patients", "fetch_all", nil)
	return nil
}

// FetchByID loads one patient into Selected
func (s *PatientStore) FetchByID(ctx context.Context, id string) (*model.Patient, error) {
	s.m.dispatch(patientsRequested{})

	r := s.api.Get(ctx, id)
	if !r.Success {
		err := requestError(r, "failed to load patient")
		s.m.dispatch(patientLoadFailed{msg: err.Message})
		record("patients", "fetch_by_id", err)
		return nil, err
	}

	s.m.dispatch(patientLoaded{patient: r.Data})
	record("patients", "fetch_by_id", nil)
	p := r.Data
	return &p, nil
}

// Create posts a new patient and appends it on success. Input is not validated here.
func (s *PatientStore) Create(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	s.m.dispatch(patientsRequested{})

	r := s.api.Create(ctx, in)
	if !r.Success {
		err := requestError(r, "failed to create patient")
		s.m.dispatch(patientRequestFailed{msg: err.Message})
		record("patients", "create", err)
		return nil, err
	}

	s.m.dispatch(patientAdded{patient: r.Data})
	record("patients", "create", nil)
	p := r.Data
	return &p, nil
}

// Update replaces the matching patient in place
func (s *PatientStore) Update(ctx context.Context, in model.PatientUpdate) (*model.Patient, error) {
	s.m.dispatch(patientsRequested{})

	r := s.api.Update(ctx, in)
	if !r.Success {
		err := requestError(r, "failed to update patient")
		s.m.dispatch(patientRequestFailed{msg: err.Message})
		record("patients", "update", err)
		return nil, err
	}

	s.m.dispatch(patientReplaced{patient: r.Data})
	record("patients", "update", nil)
	p := r.Data
	return &p, nil
}

// Delete removes a patient and clears the selection if it pointed at it
func (s *PatientStore) Delete(ctx context.Context, id string) error {
	s.m.dispatch(patientsRequested{})

	r := s.api.Delete(ctx, id)
	if !r.Success {
		err := requestError(r, "failed to delete patient")
		s.m.dispatch(patientRequestFailed{msg: err.Message})
		record("patients", "delete", err)
		return err
	}

	s.m.dispatch(patientRemoved{id: id})
	record("patients", "delete", nil)
	return nil
}

// SetSelected replaces the selection; nil clears it
func (s *PatientStore) SetSelected(p *model.Patient) {
	s.m.dispatch(patientSelected{patient: p})
}

// ClearError drops the current error
func (s *PatientStore) ClearError() {
	s.m.dispatch(patientErrorCleared{})
}
