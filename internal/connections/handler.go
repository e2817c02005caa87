package connections

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ravikant96/AllSpark/internal/observability"
	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Handler manages connection endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers connection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/connections", h.list)
	r.Get("/connections/{id}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	conns, err := h.service.List(r.Context(), user)
	if err != nil {
		h.logger.Error("list connections failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, conns)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid connection id")
		return
	}
	user := shared.UserFromContext(r.Context())
	conn, res, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveAuthzDecision("connection", res.Allowed())
	if !res.Allowed() {
		httpx.JSON(w, http.StatusForbidden, res)
		return
	}
	httpx.JSON(w, http.StatusOK, conn)
}
