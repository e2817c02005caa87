package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Ravikant96/AllSpark/internal/observability"
	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Handler manages report, visualization and metadata endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics, validate: validator.New()}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports", h.list)
	r.Get("/reports/{id}", h.show)
	r.Get("/metadata", h.metadata)
	r.Post("/visualizations", h.createVisualization)
	r.Put("/visualizations/{id}", h.updateVisualization)
	r.Delete("/visualizations/{id}", h.deleteVisualization)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	reports, err := h.service.List(r.Context(), user)
	if err != nil {
		h.logger.Error("list reports failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reports)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid report id")
		return
	}
	user := shared.UserFromContext(r.Context())
	report, res, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveAuthzDecision("report", res.Allowed())
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	metadata, err := h.service.Metadata(r.Context(), user)
	if err != nil {
		h.logger.Error("metadata assembly failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, metadata)
}

type visualizationRequest struct {
	QueryID int64  `json:"query_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Options string `json:"options"`
}

func (h *Handler) createVisualization(w http.ResponseWriter, r *http.Request) {
	var req visualizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	user := shared.UserFromContext(r.Context())
	id, res, err := h.service.InsertVisualization(r.Context(), user, Visualization{
		QueryID: req.QueryID,
		Name:    req.Name,
		Type:    req.Type,
		Options: req.Options,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"visualization_id": id})
}

func (h *Handler) updateVisualization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid visualization id")
		return
	}
	var req visualizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	user := shared.UserFromContext(r.Context())
	res, err := h.service.UpdateVisualization(r.Context(), user, Visualization{
		VisualizationID: id,
		Name:            req.Name,
		Type:            req.Type,
		Options:         req.Options,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) deleteVisualization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid visualization id")
		return
	}
	user := shared.UserFromContext(r.Context())
	res, err := h.service.DeleteVisualization(r.Context(), user, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
