package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/engine"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
	"github.com/gyaneshwarpardhi/funnelsim/internal/metrics"
	"github.com/gyaneshwarpardhi/funnelsim/internal/store"
)

const maxBatchSize = 100

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng      *engine.Engine
	loader   *config.Loader
	store    store.Store
	validate *validator.Validate
	registry *component.Registry
	started  time.Time
	mux      *http.ServeMux
}

// New creates an HTTP handler and registers all routes. When loader is
// non-nil every successful reload, from the file watcher or the reload
// route, swaps the engine's blueprints.
func New(eng *engine.Engine, loader *config.Loader, st store.Store) http.Handler {
	if loader != nil {
		loader.OnChange(func(cfg *config.Config) { eng.SwapBlueprints(cfg.Blueprints) })
	}

	h := &Handler{
		eng:      eng,
		loader:   loader,
		store:    st,
		validate: newValidator(),
		registry: component.Default(),
		started:  time.Now(),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /v1/simulate", h.simulate)
	h.mux.HandleFunc("POST /v1/simulate/batch", h.simulateBatch)
	h.mux.HandleFunc("GET /v1/components", h.listComponents)
	h.mux.HandleFunc("GET /v1/blueprints", h.listBlueprints)
	h.mux.HandleFunc("GET /v1/blueprints/{id}", h.getBlueprint)
	h.mux.HandleFunc("POST /v1/blueprints/reload", h.reloadBlueprints)
	h.mux.HandleFunc("GET /v1/scenarios", h.listScenarios)
	h.mux.HandleFunc("POST /v1/scenarios", h.createScenario)
	h.mux.HandleFunc("GET /v1/scenarios/{id}", h.getScenario)
	h.mux.HandleFunc("PUT /v1/scenarios/{id}", h.updateScenario)
	h.mux.HandleFunc("DELETE /v1/scenarios/{id}", h.deleteScenario)
	h.mux.HandleFunc("GET /v1/scenarios/{id}/metrics", h.scenarioMetrics)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/simulate: evaluate one funnel snapshot.
// The body is not range-checked: the engine degrades bad input to defaults.
func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	res, err := h.eng.ProcessSync(r.Context(), &req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/simulate/batch: evaluate up to 100 snapshots on the worker pool.
func (h *Handler) simulateBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []*engine.Request
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one request")
		return
	}
	if len(reqs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(reqs), maxBatchSize))
		return
	}
	for i, req := range reqs {
		if req == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("batch item %d is null", i))
			return
		}
	}

	results, err := h.eng.ProcessBatch(r.Context(), reqs)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":  uuid.NewString(),
		"total":   len(reqs),
		"results": results,
	})
}

// GET /v1/components: built-in component types. Other types are accepted
// and evaluated as generic stages.
func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"types": h.registry.Types()})
}

// GET /v1/blueprints: list funnel templates.
func (h *Handler) listBlueprints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Blueprints())
}

// GET /v1/blueprints/{id}
func (h *Handler) getBlueprint(w http.ResponseWriter, r *http.Request) {
	bp, ok := h.eng.Blueprint(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "blueprint not found")
		return
	}
	writeJSON(w, http.StatusOK, bp)
}

// POST /v1/blueprints/reload: hot-reload blueprints from disk.
func (h *Handler) reloadBlueprints(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotFound, "no config file to reload")
		return
	}
	cfg, err := h.loader.Reload()
	if errors.Is(err, config.ErrInvalid) {
		writeInvalid(w, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":         true,
		"path":             h.loader.Path(),
		"blueprints_count": len(cfg.Blueprints),
	})
}

// GET /v1/scenarios
func (h *Handler) listScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, "list", err)
		return
	}
	metrics.ScenarioOps.WithLabelValues("list", "ok").Inc()
	writeJSON(w, http.StatusOK, list)
}

// POST /v1/scenarios
func (h *Handler) createScenario(w http.ResponseWriter, r *http.Request) {
	var s funnel.Scenario
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	s.ID = ""
	if err := validateScenario(h.validate, &s); err != nil {
		writeInvalid(w, err)
		return
	}
	created, err := h.store.Create(r.Context(), &s)
	if err != nil {
		h.storeError(w, "create", err)
		return
	}
	metrics.ScenarioOps.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusCreated, created)
}

// GET /v1/scenarios/{id}
func (h *Handler) getScenario(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, "get", err)
		return
	}
	metrics.ScenarioOps.WithLabelValues("get", "ok").Inc()
	writeJSON(w, http.StatusOK, s)
}

// PUT /v1/scenarios/{id}: partial update; omitted fields keep their values.
// The merged scenario is validated inside the store's update.
func (h *Handler) updateScenario(w http.ResponseWriter, r *http.Request) {
	var p store.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	updated, err := h.store.Update(r.Context(), r.PathValue("id"), p, func(s funnel.Scenario) error {
		return validateScenario(h.validate, &s)
	})
	var verr *validationError
	if errors.As(err, &verr) {
		metrics.ScenarioOps.WithLabelValues("update", "invalid").Inc()
		writeInvalid(w, err)
		return
	}
	if err != nil {
		h.storeError(w, "update", err)
		return
	}
	metrics.ScenarioOps.WithLabelValues("update", "ok").Inc()
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /v1/scenarios/{id}
func (h *Handler) deleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, "delete", err)
		return
	}
	metrics.ScenarioOps.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/scenarios/{id}/metrics: evaluate a stored scenario.
func (h *Handler) scenarioMetrics(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, "get", err)
		return
	}
	res, err := h.eng.ProcessSync(r.Context(), &engine.Request{
		ID:          s.ID,
		Components:  s.Components,
		Connections: s.Connections,
		Params:      s.Params,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// GET /readyz: 503 if evaluation queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		metrics.ScenarioOps.WithLabelValues(op, "not_found").Inc()
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	metrics.ScenarioOps.WithLabelValues(op, "error").Inc()
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, engine.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
