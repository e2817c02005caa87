package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Ravikant96/AllSpark/internal/accounts"
	"github.com/Ravikant96/AllSpark/internal/platform/httpx"
)

// Handler manages the authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	accounts *accounts.Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, accountService *accounts.Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		accounts: accountService,
		validate: validator.New(),
	}
}

// MountRoutes registers authentication routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/login/refresh", h.refresh)
	r.Post("/login/forgot", h.forgot)
	r.Post("/login/reset", h.reset)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	account, err := h.accounts.Resolve(r.Context(), r.Host)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	token, _, err := h.service.Login(r.Context(), account.AccountID, req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "bearer token required")
		return
	}
	fresh, _, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.logger.Warn("token refresh failed", "error", err)
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "token is invalid or expired")
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: fresh})
}

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	account, err := h.accounts.Resolve(r.Context(), r.Host)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SendResetLink(r.Context(), account, req.Email); err != nil {
		h.logger.Error("send reset link failed", "error", err)
	}
	// Always 200 so the endpoint does not leak which emails exist.
	httpx.JSON(w, http.StatusOK, map[string]bool{"sent": true})
}

type resetRequest struct {
	ResetToken string `json:"reset_token" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	account, err := h.accounts.Resolve(r.Context(), r.Host)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), account.AccountID, req.ResetToken, req.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"reset": true})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "bearer token required")
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}
