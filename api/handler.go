package api

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	"teamrate/core/engine"
	"teamrate/core/model"
	"teamrate/core/output"
	"teamrate/internal/errors"
)

// Source supplies the entity snapshot for the read endpoints. The store
// satisfies this; tests substitute an in-memory source.
type Source interface {
	LoadSnapshot(ctx context.Context) (*model.Snapshot, error)
}

// Handler holds the engine and snapshot source behind the routes.
type Handler struct {
	engine *engine.Engine
	src    Source
}

// NewHandler creates a handler.
func NewHandler(eng *engine.Engine, src Source) *Handler {
	return &Handler{engine: eng, src: src}
}

// PriceRequest is the snapshot-in-body pricing request.
type PriceRequest struct {
	Snapshot *model.Snapshot   `json:"snapshot"`
	Scenario *model.ScenarioID `json:"scenarioId,omitempty"`
}

// handlePrice prices a snapshot supplied in the request body.
func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.TypeInput, "decode request body"))
		return
	}
	if req.Snapshot == nil {
		writeError(w, errors.New(errors.TypeInput, "snapshot is required"))
		return
	}

	ev, err := h.engine.Evaluate(req.Snapshot, req.Scenario)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &output.Result{Pricing: ev.Pricing, Report: ev.Report})
}

// handlePricing prices the stored snapshot.
func (h *Handler) handlePricing(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluateStored(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, &output.Result{Pricing: ev.Pricing, Report: ev.Report})
}

// handleBreakdown returns the audit subtree for one metric key on one stack.
func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	stack := r.URL.Query().Get("stack")
	key := r.URL.Query().Get("key")
	if stack == "" || key == "" {
		writeError(w, errors.New(errors.TypeInput, "stack and key query parameters are required"))
		return
	}

	ev, ok := h.evaluateStored(w, r)
	if !ok {
		return
	}
	node, err := ev.Breakdown(model.StackID(stack), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// handleValidation returns only the validation report.
func (h *Handler) handleValidation(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluateStored(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ev.Report)
}

func (h *Handler) evaluateStored(w http.ResponseWriter, r *http.Request) (*engine.Evaluation, bool) {
	if h.src == nil {
		writeError(w, errors.New(errors.TypeStorage, "no snapshot source configured"))
		return nil, false
	}
	snap, err := h.src.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	var scenarioID *model.ScenarioID
	if raw := r.URL.Query().Get("scenario"); raw != "" {
		id := model.ScenarioID(raw)
		scenarioID = &id
	}

	ev, err := h.engine.Evaluate(snap, scenarioID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return ev, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.TypeOf(err) {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeStorage:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
