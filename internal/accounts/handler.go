package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Handler manages account endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/account", h.show)
	r.Get("/account/features", h.listFeatures)
	r.Post("/account/features/toggle", h.toggleFeature)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	account, err := h.service.Get(r.Context(), user.AccountID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) listFeatures(w http.ResponseWriter, r *http.Request) {
	user := shared.UserFromContext(r.Context())
	features, err := h.service.Features(r.Context(), user.AccountID)
	if err != nil {
		h.logger.Error("list features failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, features)
}

type toggleFeatureRequest struct {
	FeatureID int64 `json:"feature_id"`
	Status    bool  `json:"status"`
}

func (h *Handler) toggleFeature(w http.ResponseWriter, r *http.Request) {
	var req toggleFeatureRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	user := shared.UserFromContext(r.Context())
	if err := h.service.ToggleFeature(r.Context(), user, req.FeatureID, req.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"toggled": true})
}
