package billing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Handler manages fee generation and charge listing endpoints.
type Handler struct {
	logger    *slog.Logger
	generator *Generator
	authmw    auth.Middleware
	validate  *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, generator *Generator, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, generator: generator, authmw: authmw, validate: validator.New()}
}

// MountRoutes registers fee routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin, auth.RoleAccountant, auth.RoleViewer))
		r.Get("/monthly", h.list)
		r.Get("/monthly/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin))
		r.Post("/generate-monthly", h.generate)
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	summary, err := h.generator.Generate(r.Context(), req, identity.OperatorID)
	if err != nil {
		h.logger.Error("fee generation", slog.Any("error", err),
			slog.Int("month", req.Month), slog.Int("year", req.Year))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	studentID, _ := strconv.ParseInt(q.Get("student_id"), 10, 64)
	yearID, _ := strconv.ParseInt(q.Get("academic_year_id"), 10, 64)
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	charges, err := h.generator.ListCharges(r.Context(), ListChargesRequest{
		StudentID:      studentID,
		AcademicYearID: yearID,
		Status:         q.Get("status"),
		Month:          month,
		Year:           year,
	})
	if err != nil {
		h.logger.Error("list charges", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, charges)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid charge id")
		return
	}
	charge, err := h.generator.GetCharge(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, charge)
}
