package console

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"stealthcompany.com/claimsdesk/internal/apiclient"
	"stealthcompany.com/claimsdesk/internal/model"
	"stealthcompany.com/claimsdesk/internal/store"
)

// envelope mirrors the backend's {success, data, error} shape
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Fields  any    `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// writeError maps store and validation errors to HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	body := envelope{Error: err.Error()}
	var fe model.FieldErrors
	if errors.As(err, &fe) {
		body.Fields = fe
	}

	evt := log.Debug()
	if status >= http.StatusInternalServerError {
		evt = log.Warn()
	}
	evt.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Console request failed")

	writeJSON(w, status, body)
}

func statusFor(err error) int {
	var fe model.FieldErrors
	var apiErr *apiclient.Error
	var bad badRequestError

	switch {
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrStatusFinal):
		return http.StatusConflict
	case errors.Is(err, store.ErrClaimNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// badRequestError marks malformed console input
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequestError{msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}
