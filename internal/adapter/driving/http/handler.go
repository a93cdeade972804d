// Package httphandler is the HTTP driving adapter serving the JSON API.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/ghvelocity/internal/application"
	"github.com/ericfisherdev/ghvelocity/internal/domain/port/driven"
)

// Handler serves the REST API over the sample store and the cached rollup.
type Handler struct {
	store    driven.SampleStore
	velocity *application.VelocityService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(store driven.SampleStore, velocity *application.VelocityService, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		velocity: velocity,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/prs", h.ListPRs)
	mux.HandleFunc("GET /api/v1/velocity", h.Velocity)
	mux.HandleFunc("GET /api/v1/velocity/days", h.VelocityDays)
	mux.HandleFunc("GET /api/v1/velocity/weeks", h.VelocityWeeks)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListPRs returns every tracked pull request with its full sample history.
func (h *Handler) ListPRs(w http.ResponseWriter, r *http.Request) {
	prs, err := h.store.ListPullRequests(r.Context(), nil)
	if err != nil {
		h.logger.Error("failed to list pull requests", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Velocity returns the whole cached rollup.
func (h *Handler) Velocity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toVelocityResponse(h.velocity.Rollup()))
}

// VelocityDays returns the daily open-PR rollup.
func (h *Handler) VelocityDays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toVelocityResponse(h.velocity.Rollup()).Days)
}

// VelocityWeeks returns the weekly rollup.
func (h *Handler) VelocityWeeks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toVelocityResponse(h.velocity.Rollup()).Weeks)
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
