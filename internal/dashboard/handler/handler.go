package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"classdesk/internal/conflict"
	"classdesk/internal/conflict/findings"
	"classdesk/internal/dashboard"
	recmodels "classdesk/internal/records/models"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
	"classdesk/pkg/platform/httputil"
	"classdesk/pkg/requestcontext"
)

// Service defines the dashboard operations the handler exposes.
type Service interface {
	GetDashboard(ctx context.Context, principal domain.Principal) (dashboard.Payload, error)
	ListConflicts(ctx context.Context, principal domain.Principal) (conflict.Report, error)
	ListFindings(ctx context.Context, principal domain.Principal) ([]findings.Finding, error)
	GetAnnouncement(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.Announcement, error)
	GetTimetableEntry(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.TimetableEntry, error)
	GetAssessment(ctx context.Context, principal domain.Principal, id uuid.UUID) (recmodels.Assessment, error)
}

// Handler wires dashboard endpoints to the dashboard service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a dashboard handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts dashboard endpoints on the router. All routes require an
// authenticated principal in the request context.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.HandleGetDashboard)
	r.Get("/conflicts", h.HandleListConflicts)
	r.Get("/conflicts/findings", h.HandleListFindings)
	r.Get("/announcements/{id}", h.HandleGetAnnouncement)
	r.Get("/timetable/{id}", h.HandleGetTimetableEntry)
	r.Get("/assessments/{id}", h.HandleGetAssessment)
}

// HandleGetDashboard handles GET /dashboard requests.
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	principal, ok := h.requirePrincipal(w, ctx)
	if !ok {
		return
	}

	payload, err := h.service.GetDashboard(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard read failed",
			"request_id", requestID,
			"user_id", principal.UserID,
			"role", principal.Role,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "dashboard served",
		"request_id", requestID,
		"user_id", principal.UserID,
		"role", principal.Role,
		"data_version", payload.DataVersion,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandleListConflicts handles GET /conflicts requests.
func (h *Handler) HandleListConflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := h.requirePrincipal(w, ctx)
	if !ok {
		return
	}

	report, err := h.service.ListConflicts(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "conflict listing failed",
			"request_id", requestID,
			"user_id", principal.UserID,
			"role", principal.Role,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleListFindings handles GET /conflicts/findings requests.
func (h *Handler) HandleListFindings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := h.requirePrincipal(w, ctx)
	if !ok {
		return
	}

	fs, err := h.service.ListFindings(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "finding listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", principal.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"findings": fs})
}

// HandleGetAnnouncement handles GET /announcements/{id} requests.
func (h *Handler) HandleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.handleRecordLookup(w, r, "announcement",
		func(ctx context.Context, principal domain.Principal, id uuid.UUID) (any, error) {
			return h.service.GetAnnouncement(ctx, principal, id)
		})
}

// HandleGetTimetableEntry handles GET /timetable/{id} requests.
func (h *Handler) HandleGetTimetableEntry(w http.ResponseWriter, r *http.Request) {
	h.handleRecordLookup(w, r, "timetable entry",
		func(ctx context.Context, principal domain.Principal, id uuid.UUID) (any, error) {
			return h.service.GetTimetableEntry(ctx, principal, id)
		})
}

// HandleGetAssessment handles GET /assessments/{id} requests.
func (h *Handler) HandleGetAssessment(w http.ResponseWriter, r *http.Request) {
	h.handleRecordLookup(w, r, "assessment",
		func(ctx context.Context, principal domain.Principal, id uuid.UUID) (any, error) {
			return h.service.GetAssessment(ctx, principal, id)
		})
}

func (h *Handler) handleRecordLookup(w http.ResponseWriter, r *http.Request, kind string, lookup func(context.Context, domain.Principal, uuid.UUID) (any, error)) {
	ctx := r.Context()

	principal, ok := h.requirePrincipal(w, ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, kind+" id must be a valid uuid"))
		return
	}

	record, err := lookup(ctx, principal, id)
	if err != nil {
		// Forbidden and not-found are expected outcomes here, not faults.
		if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "record lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", principal.UserID,
				"record_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) requirePrincipal(w http.ResponseWriter, ctx context.Context) (domain.Principal, bool) {
	principal := requestcontext.Principal(ctx)
	if principal.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return domain.Principal{}, false
	}
	return principal, true
}
