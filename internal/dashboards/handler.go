package dashboards

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ravikant96/AllSpark/internal/observability"
	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Handler manages dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboards", h.list)
	r.Get("/dashboards/{id}", h.show)
	r.Post("/dashboards/visible-set/invalidate", h.invalidate)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	dashboards, err := h.service.List(r.Context(), user)
	if err != nil {
		h.logger.Error("list dashboards failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboards)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid dashboard id")
		return
	}
	user := shared.UserFromContext(r.Context())
	dashboard, res, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveAuthzDecision("dashboard", res.Allowed())
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

// invalidate drops the caller's cached visible-report set, for use after
// share changes so the next dashboard check reflects them immediately.
func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	if err := h.service.InvalidateVisibleSet(r.Context(), user.AccountID, user.UserID); err != nil {
		h.logger.Error("visible set invalidation failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"invalidated": true})
}
