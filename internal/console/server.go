package console

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"stealthcompany.com/claimsdesk/internal/app"
	"stealthcompany.com/claimsdesk/internal/metrics"
)

// Options configures the console router
type Options struct {
	// JWTSecret enables bearer auth on /api routes when non-empty
	JWTSecret string
}

// Server is the JSON console over one long-lived desk
type Server struct {
	desk *app.Desk
}

// NewRouter builds the console routes over desk
func NewRouter(desk *app.Desk, opts Options) *mux.Router {
	s := &Server{desk: desk}
	r := mux.NewRouter()

	r.Use(metrics.MetricsMiddleware)
	if opts.JWTSecret != "" {
		r.Use(AuthMiddleware([]byte(opts.JWTSecret)))
	} else {
		log.Warn().Msg("Console auth disabled, CONSOLE_JWT_SECRET is not set")
	}

	r.HandleFunc(HealthPath, healthHandler).Methods(http.MethodGet)
	r.Handle(MetricsPath, metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.stateHandler).Methods(http.MethodGet)

	api.HandleFunc("/patients", s.listPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients", s.createPatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}", s.getPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", s.updatePatient).Methods(http.MethodPut)
	api.HandleFunc("/patients/{id}", s.deletePatient).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{id}/claims", s.listPatientClaims).Methods(http.MethodGet)

	api.HandleFunc("/claims", s.listClaims).Methods(http.MethodGet)
	api.HandleFunc("/claims", s.createClaim).Methods(http.MethodPost)
	api.HandleFunc("/claims/filter", s.setClaimFilter).Methods(http.MethodPut)
	api.HandleFunc("/claims/{id}", s.getClaim).Methods(http.MethodGet)
	api.HandleFunc("/claims/{id}", s.updateClaim).Methods(http.MethodPut)
	api.HandleFunc("/claims/{id}", s.deleteClaim).Methods(http.MethodDelete)
	api.HandleFunc("/claims/{id}/status", s.updateClaimStatus).Methods(http.MethodPut)

	api.HandleFunc("/sync/claims", s.syncClaims).Methods(http.MethodPost)
	api.HandleFunc("/sync/patients", s.syncPatients).Methods(http.MethodPost)
	api.HandleFunc("/sync/history", s.syncHistory).Methods(http.MethodGet)
	api.HandleFunc("/sync/status", s.syncStatus).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stateHandler(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.desk.Snapshot())
}
