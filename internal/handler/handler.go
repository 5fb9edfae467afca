package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/finance-tracker/internal/cycle"
	"github.com/Dan9191/finance-tracker/internal/middleware"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/Dan9191/finance-tracker/internal/recorder"
	"github.com/Dan9191/finance-tracker/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	defaultSnapshotLimit = 30
	maxSnapshotLimit     = 365
)

type Handler struct {
	svc *service.Service
	rec recorder.Recorder
	log *logrus.Logger
}

func NewHandler(svc *service.Service, rec recorder.Recorder, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rec: rec, log: log}
}

// Register mounts the public and protected routes on r
func (h *Handler) Register(r *mux.Router, auth mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(auth)
	authRouter.HandleFunc("/settings", h.GetSettings).Methods("GET")
	authRouter.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	authRouter.HandleFunc("/cycles/{offset}", h.GetCycle).Methods("GET")
	authRouter.HandleFunc("/health", h.GetHealthReport).Methods("GET")
	authRouter.HandleFunc("/forecast", h.GetForecast).Methods("GET")
	authRouter.HandleFunc("/affordability", h.SimulateAffordability).Methods("POST")
	authRouter.HandleFunc("/goals", h.ListGoals).Methods("GET")
	authRouter.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	authRouter.HandleFunc("/goals/{id:[0-9]+}", h.UpdateGoal).Methods("PUT")
	authRouter.HandleFunc("/goals/{id:[0-9]+}", h.DeleteGoal).Methods("DELETE")
	authRouter.HandleFunc("/snapshots", h.ListSnapshots).Methods("GET")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Healthz reports liveness
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// GetSettings returns the budget settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Settings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, s)
}

// UpdateSettings replaces the budget settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s, err := h.svc.UpdateSettings(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, s)
}

// GetCycle returns the secured cycle for the offset in the path
func (h *Handler) GetCycle(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.Atoi(mux.Vars(r)["offset"])
	if err != nil {
		http.Error(w, "Invalid cycle offset", http.StatusBadRequest)
		return
	}
	c, err := h.svc.Cycle(r.Context(), offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, c)
}

// GetHealthReport returns the financial health report. Without an offset
// query parameter the offset stored in settings is used.
func (h *Handler) GetHealthReport(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.queryInt(w, r, "offset", -1)
	if !ok {
		return
	}
	if r.URL.Query().Has("offset") && offset < 0 {
		h.writeError(w, r, cycle.ErrNegativeOffset)
		return
	}
	report, err := h.svc.HealthReport(r.Context(), offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, report)
}

// GetForecast returns the budget forecast for the current cycle
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	days, ok := h.queryInt(w, r, "days", 0)
	if !ok {
		return
	}
	f, err := h.svc.Forecast(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, f)
}

// SimulateAffordability reports how a new monthly expense fits the budget
func (h *Handler) SimulateAffordability(w http.ResponseWriter, r *http.Request) {
	var req models.AffordabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.svc.Affordability(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

// ListGoals returns the active goals with their progress in the current cycle
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.Goals(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, goals)
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in models.Goal
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	g, err := h.svc.CreateGoal(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, g)
}

func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid goal id", http.StatusBadRequest)
		return
	}
	var u models.GoalUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	g, err := h.svc.UpdateGoal(r.Context(), id, u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, g)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid goal id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteGoal(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSnapshots returns the recorded daily snapshots, newest first
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.queryInt(w, r, "limit", defaultSnapshotLimit)
	if !ok {
		return
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxSnapshotLimit {
		limit = maxSnapshotLimit
	}
	snaps, err := h.rec.Snapshots(limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []models.Snapshot{}
	}
	h.writeJSON(w, r, http.StatusOK, snaps)
}

func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid "+key+" parameter", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithField("request_id", middleware.RequestID(r.Context())).Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cycle.ErrNegativeOffset), errors.Is(err, models.ErrInvalidSettings),
		errors.Is(err, models.ErrInvalidGoal), errors.Is(err, models.ErrInvalidSimulation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrGoalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		h.log.WithField("request_id", middleware.RequestID(r.Context())).Errorf("Request failed: %v", err)
		h.writeJSON(w, r, status, map[string]string{"error": "internal error"})
		return
	}
	h.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
