package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classdesk/internal/records/models"
	"classdesk/pkg/domain"
	"classdesk/pkg/platform/sentinel"
)

// Postgres persists academic records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) PutAnnouncement(ctx context.Context, a models.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO announcements (id, tenant_id, scope, class_id, role, created_at, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			scope = EXCLUDED.scope,
			class_id = EXCLUDED.class_id,
			role = EXCLUDED.role,
			body = EXCLUDED.body
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, uuid.UUID(a.TenantID), string(a.Scope),
		nullUUID(uuid.UUID(a.ClassID)), nullString(string(a.Role)),
		a.CreatedAt, a.Body)
	if err != nil {
		return fmt.Errorf("put announcement: %w", err)
	}
	return nil
}

func (s *Postgres) PutTimetableEntry(ctx context.Context, e models.TimetableEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO timetable_entries (id, tenant_id, class_id, day_of_week, start_minute, end_minute, subject, room_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			day_of_week = EXCLUDED.day_of_week,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			subject = EXCLUDED.subject,
			room_id = EXCLUDED.room_id
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, uuid.UUID(e.TenantID), uuid.UUID(e.ClassID),
		int(e.DayOfWeek), e.StartMinute, e.EndMinute, e.Subject, uuid.UUID(e.RoomID))
	if err != nil {
		return fmt.Errorf("put timetable entry: %w", err)
	}
	return nil
}

func (s *Postgres) PutAssessment(ctx context.Context, a models.Assessment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO assessments (id, tenant_id, class_id, window_start, window_end, title)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			window_start = EXCLUDED.window_start,
			window_end = EXCLUDED.window_end,
			title = EXCLUDED.title
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, uuid.UUID(a.TenantID), uuid.UUID(a.ClassID),
		a.WindowStart, a.WindowEnd, a.Title)
	if err != nil {
		return fmt.Errorf("put assessment: %w", err)
	}
	return nil
}

func (s *Postgres) PutGrade(ctx context.Context, g models.Grade) error {
	if err := g.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO grades (assessment_id, student_id, tenant_id, score, max_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id, student_id) DO UPDATE SET
			score = EXCLUDED.score,
			max_score = EXCLUDED.max_score
	`
	_, err := s.db.ExecContext(ctx, query,
		g.AssessmentID, uuid.UUID(g.StudentID), uuid.UUID(g.TenantID), g.Score, g.MaxScore)
	if err != nil {
		return fmt.Errorf("put grade: %w", err)
	}
	return nil
}

func (s *Postgres) PutAttendance(ctx context.Context, r models.AttendanceRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO attendance_records (student_id, class_id, tenant_id, date, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, date) DO UPDATE SET
			class_id = EXCLUDED.class_id,
			status = EXCLUDED.status
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(r.StudentID), uuid.UUID(r.ClassID), uuid.UUID(r.TenantID),
		r.Date, string(r.Status))
	if err != nil {
		return fmt.Errorf("put attendance record: %w", err)
	}
	return nil
}

func (s *Postgres) ListAnnouncements(ctx context.Context, tenantID domain.TenantID) ([]models.Announcement, error) {
	query := `
		SELECT id, tenant_id, scope, class_id, role, created_at, body
		FROM announcements
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var out []models.Announcement
	for rows.Next() {
		var a models.Announcement
		var tenant uuid.UUID
		var scope string
		var classID sql.Null[uuid.UUID]
		var role sql.NullString
		if err := rows.Scan(&a.ID, &tenant, &scope, &classID, &role, &a.CreatedAt, &a.Body); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		a.TenantID = domain.TenantID(tenant)
		a.Scope = models.AnnouncementScope(scope)
		if classID.Valid {
			a.ClassID = domain.ClassID(classID.V)
		}
		if role.Valid {
			a.Role = domain.Role(role.String)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) ListTimetable(ctx context.Context, tenantID domain.TenantID) ([]models.TimetableEntry, error) {
	query := `
		SELECT id, tenant_id, class_id, day_of_week, start_minute, end_minute, subject, room_id
		FROM timetable_entries
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	defer rows.Close()

	var out []models.TimetableEntry
	for rows.Next() {
		var e models.TimetableEntry
		var tenant, class, room uuid.UUID
		var day int
		if err := rows.Scan(&e.ID, &tenant, &class, &day, &e.StartMinute, &e.EndMinute, &e.Subject, &room); err != nil {
			return nil, fmt.Errorf("scan timetable entry: %w", err)
		}
		e.TenantID = domain.TenantID(tenant)
		e.ClassID = domain.ClassID(class)
		e.DayOfWeek = time.Weekday(day)
		e.RoomID = domain.RoomID(room)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) ListAssessments(ctx context.Context, tenantID domain.TenantID) ([]models.Assessment, error) {
	query := `
		SELECT id, tenant_id, class_id, window_start, window_end, title
		FROM assessments
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []models.Assessment
	for rows.Next() {
		var a models.Assessment
		var tenant, class uuid.UUID
		if err := rows.Scan(&a.ID, &tenant, &class, &a.WindowStart, &a.WindowEnd, &a.Title); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.TenantID = domain.TenantID(tenant)
		a.ClassID = domain.ClassID(class)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) ListGrades(ctx context.Context, tenantID domain.TenantID) ([]models.Grade, error) {
	query := `
		SELECT assessment_id, student_id, tenant_id, score, max_score
		FROM grades
		WHERE tenant_id = $1
		ORDER BY assessment_id, student_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()

	var out []models.Grade
	for rows.Next() {
		var g models.Grade
		var student, tenant uuid.UUID
		if err := rows.Scan(&g.AssessmentID, &student, &tenant, &g.Score, &g.MaxScore); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		g.StudentID = domain.StudentID(student)
		g.TenantID = domain.TenantID(tenant)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Postgres) ListAttendance(ctx context.Context, tenantID domain.TenantID) ([]models.AttendanceRecord, error) {
	query := `
		SELECT student_id, class_id, tenant_id, date, status
		FROM attendance_records
		WHERE tenant_id = $1
		ORDER BY student_id, date
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		var student, class, tenant uuid.UUID
		var status string
		if err := rows.Scan(&student, &class, &tenant, &r.Date, &status); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		r.StudentID = domain.StudentID(student)
		r.ClassID = domain.ClassID(class)
		r.TenantID = domain.TenantID(tenant)
		r.Status = models.AttendanceStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) GetAnnouncement(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Announcement, error) {
	query := `
		SELECT id, tenant_id, scope, class_id, role, created_at, body
		FROM announcements
		WHERE tenant_id = $1 AND id = $2
	`
	var a models.Announcement
	var tenant uuid.UUID
	var scope string
	var classID sql.Null[uuid.UUID]
	var role sql.NullString
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), id).
		Scan(&a.ID, &tenant, &scope, &classID, &role, &a.CreatedAt, &a.Body)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Announcement{}, sentinel.ErrNotFound
		}
		return models.Announcement{}, fmt.Errorf("get announcement: %w", err)
	}
	a.TenantID = domain.TenantID(tenant)
	a.Scope = models.AnnouncementScope(scope)
	if classID.Valid {
		a.ClassID = domain.ClassID(classID.V)
	}
	if role.Valid {
		a.Role = domain.Role(role.String)
	}
	return a, nil
}

func (s *Postgres) GetTimetableEntry(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.TimetableEntry, error) {
	query := `
		SELECT id, tenant_id, class_id, day_of_week, start_minute, end_minute, subject, room_id
		FROM timetable_entries
		WHERE tenant_id = $1 AND id = $2
	`
	var e models.TimetableEntry
	var tenant, class, room uuid.UUID
	var day int
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), id).
		Scan(&e.ID, &tenant, &class, &day, &e.StartMinute, &e.EndMinute, &e.Subject, &room)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.TimetableEntry{}, sentinel.ErrNotFound
		}
		return models.TimetableEntry{}, fmt.Errorf("get timetable entry: %w", err)
	}
	e.TenantID = domain.TenantID(tenant)
	e.ClassID = domain.ClassID(class)
	e.DayOfWeek = time.Weekday(day)
	e.RoomID = domain.RoomID(room)
	return e, nil
}

func (s *Postgres) GetAssessment(ctx context.Context, tenantID domain.TenantID, id uuid.UUID) (models.Assessment, error) {
	query := `
		SELECT id, tenant_id, class_id, window_start, window_end, title
		FROM assessments
		WHERE tenant_id = $1 AND id = $2
	`
	var a models.Assessment
	var tenant, class uuid.UUID
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), id).
		Scan(&a.ID, &tenant, &class, &a.WindowStart, &a.WindowEnd, &a.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Assessment{}, sentinel.ErrNotFound
		}
		return models.Assessment{}, fmt.Errorf("get assessment: %w", err)
	}
	a.TenantID = domain.TenantID(tenant)
	a.ClassID = domain.ClassID(class)
	return a, nil
}

func nullUUID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
