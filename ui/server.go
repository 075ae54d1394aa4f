package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qcsim/app"
	"qcsim/domain/core"
	"qcsim/internal"
	"qcsim/internal/config"
	"qcsim/internal/testkit"
	"qcsim/ports"
)

// Server exposes runs and ensembles over HTTP
type Server struct {
	router    *chi.Mux
	sims      *app.SimulationService
	ensembles *app.EnsembleService
	ledger    ports.Ledger
	defaults  config.SimulationConfig
	logger    *internal.Logger
}

// NewServer creates the HTTP surface over the given services
func NewServer(sims *app.SimulationService, ensembles *app.EnsembleService, ledger ports.Ledger, defaults config.SimulationConfig, logger *internal.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		sims:      sims,
		ensembles: ensembles,
		ledger:    ledger,
		defaults:  defaults,
		logger:    logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/runs", s.handleCreateRun)
	s.router.Get("/runs", s.handleListRuns)
	s.router.Get("/runs/{runID}", s.handleGetManifest)
	s.router.Get("/runs/{runID}/trajectory", s.handleGetTrajectory)
	s.router.Get("/runs/{runID}/report", s.handleGetReport)
	s.router.Post("/ensembles", s.handleCreateEnsemble)

	return s
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// RunParams is the request body for POST /runs
type RunParams struct {
	RingSize    int              `json:"ring_size"`
	Steps       int              `json:"steps"`
	Probability *float64         `json:"probability"`
	Seeds       map[string]int64 `json:"seeds"`
}

func (s *Server) fillDefaults(p *RunParams) {
	if p.RingSize == 0 {
		p.RingSize = s.defaults.RingSize
	}
	if p.Steps == 0 {
		p.Steps = s.defaults.Steps
	}
	if p.Probability == nil {
		probability := s.defaults.Probability
		p.Probability = &probability
	}
	if len(p.Seeds) == 0 {
		p.Seeds = s.defaults.Seeds()
	}
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var params RunParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.fillDefaults(&params)

	protocol := testkit.DefaultProtocol(*params.Probability, params.RingSize)
	result, err := s.sims.Run(r.Context(), app.RunRequest{
		RingSize:    params.RingSize,
		Steps:       params.Steps,
		Seeds:       params.Seeds,
		CodeVersion: Version,
		Setup:       protocol.Setup,
		Observable:  testkit.DomainWallObservable,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.logger.Info("run %s completed: %d steps, %d applied", result.Manifest.RunID, params.Steps, result.Applied)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.ledger.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": ids})
}

func (s *Server) handleGetManifest(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	manifest, err := s.ledger.Manifest(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

func (s *Server) handleGetTrajectory(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	points, err := s.ledger.Trajectory(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     runID,
		"trajectory": points,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	manifest, err := s.ledger.Manifest(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	points, err := s.ledger.Trajectory(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(RenderReport(manifest, points))
}

// EnsembleParams is the request body for POST /ensembles
type EnsembleParams struct {
	RunParams
	Runs        int `json:"runs"`
	Parallelism int `json:"parallelism"`
}

func (s *Server) handleCreateEnsemble(w http.ResponseWriter, r *http.Request) {
	var params EnsembleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.fillDefaults(&params.RunParams)
	if params.Runs == 0 {
		params.Runs = s.defaults.EnsembleRuns
	}
	if params.Parallelism == 0 {
		params.Parallelism = s.defaults.Parallelism
	}

	protocol := testkit.DefaultProtocol(*params.Probability, params.RingSize)
	result, err := s.ensembles.Run(r.Context(), app.EnsembleRequest{
		Runs:        params.Runs,
		RingSize:    params.RingSize,
		Steps:       params.Steps,
		BaseSeeds:   params.Seeds,
		CodeVersion: Version,
		Setup:       protocol.Setup,
		Observable:  testkit.DomainWallObservable,
		Parallelism: params.Parallelism,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.logger.Info("ensemble %s completed: %d runs", result.EnsembleID, params.Runs)
	writeJSON(w, http.StatusCreated, result)
}

func statusFor(err error) int {
	switch {
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	case core.IsCircuitError(err), core.IsRegistryError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already gone; nothing to signal to the client.
		return
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

