package docs

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Handler manages documentation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers documentation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/docs", h.list)
	r.Get("/docs/tree", h.tree)
	r.Post("/docs", h.create)
	r.Put("/docs/{id}", h.update)
	r.Delete("/docs/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list documentation failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, chapters)
}

// tree serves a subtree by id or slug; without a selector it returns the
// full outline.
func (h *Handler) tree(w http.ResponseWriter, r *http.Request) {
	opts := GetOptions{
		Slug:     r.URL.Query().Get("slug"),
		WithBody: r.URL.Query().Get("body") == "true",
	}
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid chapter id")
			return
		}
		opts.ID = id
	}

	chapters, err := h.service.Get(r.Context(), opts)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, chapters)
}

type chapterRequest struct {
	Slug    string `json:"slug" validate:"required"`
	Heading string `json:"heading" validate:"required"`
	Body    string `json:"body"`
	Parent  int64  `json:"parent"`
	Chapter int64  `json:"chapter" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req chapterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	user := shared.UserFromContext(r.Context())
	id, err := h.service.Insert(r.Context(), user, Chapter{
		Slug:     req.Slug,
		Heading:  req.Heading,
		Body:     req.Body,
		ParentID: req.Parent,
		Chapter:  req.Chapter,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid chapter id")
		return
	}
	var req chapterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	user := shared.UserFromContext(r.Context())
	err = h.service.Update(r.Context(), user, Chapter{
		ID:       id,
		Slug:     req.Slug,
		Heading:  req.Heading,
		Body:     req.Body,
		ParentID: req.Parent,
		Chapter:  req.Chapter,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid chapter id")
		return
	}
	user := shared.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), user, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
