package feestructure

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Handler manages fee structure endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	authmw   auth.Middleware
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, validate: validator.New()}
}

// MountRoutes registers fee structure routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin, auth.RoleAccountant, auth.RoleViewer))
		r.Get("/structures", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin))
		r.Post("/structures", h.create)
		r.Put("/structures/{id}", h.update)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	classID, _ := strconv.ParseInt(r.URL.Query().Get("class_id"), 10, 64)
	yearID, _ := strconv.ParseInt(r.URL.Query().Get("academic_year_id"), 10, 64)

	structures, err := h.service.List(r.Context(), ListFeeStructuresRequest{ClassID: classID, AcademicYearID: yearID})
	if err != nil {
		h.logger.Error("list fee structures", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, structures)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeeStructureRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	fs, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create fee structure", slog.Any("error", err), slog.Int64("class_id", req.ClassID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, fs)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid structure id")
		return
	}
	var req UpdateFeeStructureRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	fs, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update fee structure", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, fs)
}
