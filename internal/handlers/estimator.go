package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/sessions"
)

// SessionStore holds live estimator sessions.
type SessionStore interface {
	Create() (string, estimator.View)
	View(id string) (estimator.View, error)
	Dispatch(id string, a estimator.Action) (estimator.View, error)
	Submit(ctx context.Context, id string, sub estimator.Submitter) (string, estimator.View, error)
	Delete(id string) error
}

var errUnknownAction = errors.New("unknown action type")

// ActionRequest is the body of POST /api/estimator/sessions/{id}/actions.
// Only the fields relevant to Type are read.
type ActionRequest struct {
	Type       string `json:"type"`
	TypeID     string `json:"typeId,omitempty"`
	FeatureID  string `json:"featureId,omitempty"`
	PlanID     string `json:"planId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
	Step       *int   `json:"step,omitempty"`
}

// Action converts the request into a reducer action.
func (r ActionRequest) Action() (estimator.Action, error) {
	switch r.Type {
	case "selectType":
		return estimator.SelectType{TypeID: r.TypeID}, nil
	case "toggleFeature":
		return estimator.ToggleFeature{FeatureID: r.FeatureID}, nil
	case "selectSupport":
		return estimator.SelectSupport{PlanID: r.PlanID}, nil
	case "setActiveCategory":
		return estimator.SetActiveCategory{CategoryID: r.CategoryID}, nil
	case "updateContactField":
		return estimator.UpdateContactField{Field: r.Field, Value: r.Value}, nil
	case "goNext":
		return estimator.GoNext{}, nil
	case "goBack":
		return estimator.GoBack{}, nil
	case "navigateTo":
		if r.Step == nil {
			return nil, errors.New("navigateTo requires a step")
		}
		return estimator.NavigateTo{Step: estimator.Step(*r.Step)}, nil
	case "reset":
		return estimator.Reset{}, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownAction, r.Type)
}

// EstimateRequest is the body of POST /api/estimator/estimate.
type EstimateRequest struct {
	TypeID     string   `json:"typeId"`
	FeatureIDs []string `json:"featureIds"`
	SupportID  string   `json:"supportId"`
}

// CatalogResponse is everything a client needs to render the wizard.
type CatalogResponse struct {
	Types        []estimator.WebsiteType     `json:"types"`
	Categories   []estimator.FeatureCategory `json:"categories"`
	Features     []CatalogFeature            `json:"features"`
	SupportPlans []estimator.SupportPlan     `json:"supportPlans"`
	Steps        []estimator.StepInfo        `json:"steps"`
}

// CatalogFeature is a feature with its display price.
type CatalogFeature struct {
	estimator.Feature
	PriceLabel string `json:"priceLabel"`
}

type sessionResponse struct {
	ID   string         `json:"id"`
	View estimator.View `json:"view"`
}

// EstimatorHandler serves the cost estimator wizard.
type EstimatorHandler struct {
	catalog   *estimator.Catalog
	sessions  SessionStore
	submitter estimator.Submitter
	logger    *zap.Logger
	listing   CatalogResponse
}

// NewEstimatorHandler creates an EstimatorHandler. Quotes are handed to
// submitter when a session is submitted.
func NewEstimatorHandler(catalog *estimator.Catalog, store SessionStore, submitter estimator.Submitter, logger *zap.Logger) *EstimatorHandler {
	h := &EstimatorHandler{
		catalog:   catalog,
		sessions:  store,
		submitter: submitter,
		logger:    nopIfNil(logger),
	}
	h.listing = CatalogResponse{
		Types:        catalog.Types(),
		Categories:   catalog.Categories(),
		SupportPlans: catalog.SupportPlans(),
		Steps:        estimator.Steps(),
	}
	for _, f := range catalog.Features() {
		h.listing.Features = append(h.listing.Features, CatalogFeature{Feature: f, PriceLabel: estimator.PriceLabel(f)})
	}
	return h
}

// RegisterRoutes registers the estimator routes. submitMiddleware wraps the
// submit endpoint only.
func (h *EstimatorHandler) RegisterRoutes(router chi.Router, submitMiddleware ...func(http.Handler) http.Handler) {
	router.Route("/api/estimator", func(r chi.Router) {
		r.Get("/catalog", h.Catalog)
		r.Post("/estimate", h.Estimate)
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Delete("/sessions/{id}", h.DeleteSession)
		r.Post("/sessions/{id}/actions", h.Dispatch)
		r.With(submitMiddleware...).Post("/sessions/{id}/submit", h.Submit)
	})
}

// Catalog returns the full catalog.
func (h *EstimatorHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.listing)
}

// Estimate prices a selection without a session.
func (h *EstimatorHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.checkSelection(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"estimate":           estimator.PriceEstimate(h.catalog, req.TypeID, req.FeatureIDs, req.SupportID),
		"includedCount":      estimator.IncludedCount(h.catalog, req.TypeID),
		"extraSelectedCount": estimator.ExtraSelectedCount(h.catalog, req.TypeID, req.FeatureIDs),
	})
}

func (h *EstimatorHandler) checkSelection(req EstimateRequest) error {
	if req.TypeID != "" {
		if _, err := h.catalog.Type(req.TypeID); err != nil {
			return err
		}
	}
	for _, id := range req.FeatureIDs {
		if _, err := h.catalog.Feature(id); err != nil {
			return err
		}
	}
	if req.SupportID != "" {
		if _, err := h.catalog.SupportPlan(req.SupportID); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession starts a new wizard session.
func (h *EstimatorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, view := h.sessions.Create()
	h.logger.Debug("estimator: session created", zap.String("session_id", id))
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: view})
}

// GetSession returns the current view of a session.
func (h *EstimatorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := h.sessions.View(id)
	if err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

// DeleteSession discards a session.
func (h *EstimatorHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(id); err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch applies one action to a session.
func (h *EstimatorHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	action, err := req.Action()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.sessions.Dispatch(id, action)
	if err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

// Submit sends the session's quote. A failed submission leaves the session
// on the summary step so it can be retried.
func (h *EstimatorHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	quoteID, view, err := h.sessions.Submit(r.Context(), id, h.submitter)
	if err != nil {
		var serr *estimator.SubmissionError
		if errors.As(err, &serr) {
			h.logger.Error("estimator: quote submission failed", zap.String("session_id", id), zap.Error(serr.Err))
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error": serr.Message,
				"view":  view,
			})
			return
		}
		h.writeSessionError(w, id, err)
		return
	}

	h.logger.Info("estimator: quote submitted",
		zap.String("session_id", id),
		zap.String("quote_id", quoteID),
		zap.Int("total", view.Estimate.Total),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"quoteId": quoteID,
		"view":    view,
	})
}

func (h *EstimatorHandler) writeSessionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, estimator.ErrUnknownType),
		errors.Is(err, estimator.ErrUnknownCategory),
		errors.Is(err, estimator.ErrUnknownFeature),
		errors.Is(err, estimator.ErrUnknownSupportPlan),
		errors.Is(err, estimator.ErrUnknownContactField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, estimator.ErrNotReady),
		errors.Is(err, estimator.ErrSubmissionInFlight),
		errors.Is(err, estimator.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("estimator: session operation failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
