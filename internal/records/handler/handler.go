// Package handler exposes the administrative write surface. Every accepted
// write bumps the tenant data version, so cached dashboards roll over on the
// next read.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dirmodels "classdesk/internal/directory/models"
	recmodels "classdesk/internal/records/models"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
	"classdesk/pkg/platform/httputil"
	"classdesk/pkg/requestcontext"
)

// Service defines the write operations the handler exposes.
type Service interface {
	PutAnnouncement(ctx context.Context, principal domain.Principal, a recmodels.Announcement) error
	PutTimetableEntry(ctx context.Context, principal domain.Principal, e recmodels.TimetableEntry) error
	PutAssessment(ctx context.Context, principal domain.Principal, a recmodels.Assessment) error
	PutGrade(ctx context.Context, principal domain.Principal, g recmodels.Grade) error
	PutAttendance(ctx context.Context, principal domain.Principal, r recmodels.AttendanceRecord) error
	AddEnrollment(ctx context.Context, principal domain.Principal, e dirmodels.Enrollment) error
	AddGuardianship(ctx context.Context, principal domain.Principal, g dirmodels.Guardianship) error
	AddClassAssignment(ctx context.Context, principal domain.Principal, a dirmodels.ClassAssignment) error
}

// Handler wires the write endpoints to the records write service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a records write handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the write endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/announcements", h.HandlePutAnnouncement)
	r.Post("/admin/timetable", h.HandlePutTimetableEntry)
	r.Post("/admin/assessments", h.HandlePutAssessment)
	r.Post("/admin/grades", h.HandlePutGrade)
	r.Post("/admin/attendance", h.HandlePutAttendance)
	r.Post("/admin/enrollments", h.HandleAddEnrollment)
	r.Post("/admin/guardianships", h.HandleAddGuardianship)
	r.Post("/admin/class-assignments", h.HandleAddClassAssignment)
}

// HandlePutAnnouncement handles POST /admin/announcements.
func (h *Handler) HandlePutAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[announcementRequest](h, w, r)
	if !ok {
		return
	}
	a, err := req.toModel(principal.TenantID, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "announcement", h.service.PutAnnouncement(ctx, principal, a))
}

// HandlePutTimetableEntry handles POST /admin/timetable.
func (h *Handler) HandlePutTimetableEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[timetableEntryRequest](h, w, r)
	if !ok {
		return
	}
	e, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "timetable_entry", h.service.PutTimetableEntry(ctx, principal, e))
}

// HandlePutAssessment handles POST /admin/assessments.
func (h *Handler) HandlePutAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[assessmentRequest](h, w, r)
	if !ok {
		return
	}
	a, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "assessment", h.service.PutAssessment(ctx, principal, a))
}

// HandlePutGrade handles POST /admin/grades.
func (h *Handler) HandlePutGrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[gradeRequest](h, w, r)
	if !ok {
		return
	}
	g, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "grade", h.service.PutGrade(ctx, principal, g))
}

// HandlePutAttendance handles POST /admin/attendance.
func (h *Handler) HandlePutAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[attendanceRequest](h, w, r)
	if !ok {
		return
	}
	rec, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "attendance_record", h.service.PutAttendance(ctx, principal, rec))
}

// HandleAddEnrollment handles POST /admin/enrollments.
func (h *Handler) HandleAddEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[enrollmentRequest](h, w, r)
	if !ok {
		return
	}
	e, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "enrollment", h.service.AddEnrollment(ctx, principal, e))
}

// HandleAddGuardianship handles POST /admin/guardianships.
func (h *Handler) HandleAddGuardianship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[guardianshipRequest](h, w, r)
	if !ok {
		return
	}
	g, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "guardianship", h.service.AddGuardianship(ctx, principal, g))
}

// HandleAddClassAssignment handles POST /admin/class-assignments.
func (h *Handler) HandleAddClassAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, req, ok := decodeWrite[classAssignmentRequest](h, w, r)
	if !ok {
		return
	}
	a, err := req.toModel(principal.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.finishWrite(w, ctx, principal, "class_assignment", h.service.AddClassAssignment(ctx, principal, a))
}

// decodeWrite pulls the principal from context and decodes the request body.
func decodeWrite[T any](h *Handler, w http.ResponseWriter, r *http.Request) (domain.Principal, T, bool) {
	ctx := r.Context()
	var zero T

	principal := requestcontext.Principal(ctx)
	if principal.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return domain.Principal{}, zero, false
	}

	req, ok := httputil.Decode[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return domain.Principal{}, zero, false
	}
	return principal, req, true
}

func (h *Handler) finishWrite(w http.ResponseWriter, ctx context.Context, principal domain.Principal, entityType string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if err != nil {
		if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "record write failed",
				"request_id", requestID,
				"user_id", principal.UserID,
				"entity_type", entityType,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "record written",
		"request_id", requestID,
		"user_id", principal.UserID,
		"entity_type", entityType,
	)
	w.WriteHeader(http.StatusNoContent)
}
