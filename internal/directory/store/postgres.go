package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"classdesk/internal/directory/models"
	"classdesk/pkg/domain"
	"classdesk/pkg/platform/sentinel"
)

// Postgres persists relationship rows in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) AddEnrollment(ctx context.Context, e models.Enrollment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO enrollments (student_id, class_id, tenant_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, class_id, tenant_id) DO UPDATE SET
			status = EXCLUDED.status
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(e.StudentID), uuid.UUID(e.ClassID), uuid.UUID(e.TenantID), string(e.Status))
	if err != nil {
		return fmt.Errorf("add enrollment: %w", err)
	}
	return nil
}

func (s *Postgres) AddGuardianship(ctx context.Context, g models.Guardianship) error {
	if err := g.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO guardianships (parent_id, student_id, tenant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(g.ParentID), uuid.UUID(g.StudentID), uuid.UUID(g.TenantID))
	if err != nil {
		return fmt.Errorf("add guardianship: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) AddClassAssignment(ctx context.Context, a models.ClassAssignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO class_assignments (teacher_id, class_id, tenant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.TeacherID), uuid.UUID(a.ClassID), uuid.UUID(a.TenantID))
	if err != nil {
		return fmt.Errorf("add class assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) ListEnrollmentsByStudent(ctx context.Context, tenantID domain.TenantID, studentID domain.StudentID) ([]models.Enrollment, error) {
	query := `
		SELECT student_id, class_id, tenant_id, status
		FROM enrollments
		WHERE tenant_id = $1 AND student_id = $2 AND status = 'active'
		ORDER BY class_id, student_id
	`
	return s.queryEnrollments(ctx, query, uuid.UUID(tenantID), uuid.UUID(studentID))
}

func (s *Postgres) ListEnrollmentsByClasses(ctx context.Context, tenantID domain.TenantID, classIDs []domain.ClassID) ([]models.Enrollment, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(classIDs))
	for i, id := range classIDs {
		ids[i] = uuid.UUID(id)
	}
	query := `
		SELECT student_id, class_id, tenant_id, status
		FROM enrollments
		WHERE tenant_id = $1 AND class_id = ANY($2) AND status = 'active'
		ORDER BY class_id, student_id
	`
	return s.queryEnrollments(ctx, query, uuid.UUID(tenantID), pq.Array(ids))
}

func (s *Postgres) queryEnrollments(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []models.Enrollment
	for rows.Next() {
		var studentID, classID, tenantID uuid.UUID
		var status string
		if err := rows.Scan(&studentID, &classID, &tenantID, &status); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, models.Enrollment{
			StudentID: domain.StudentID(studentID),
			ClassID:   domain.ClassID(classID),
			TenantID:  domain.TenantID(tenantID),
			Status:    models.EnrollmentStatus(status),
		})
	}
	return out, rows.Err()
}

func (s *Postgres) ListAssignmentsByTeacher(ctx context.Context, tenantID domain.TenantID, teacherID domain.UserID) ([]models.ClassAssignment, error) {
	query := `
		SELECT teacher_id, class_id, tenant_id
		FROM class_assignments
		WHERE tenant_id = $1 AND teacher_id = $2
		ORDER BY class_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(teacherID))
	if err != nil {
		return nil, fmt.Errorf("list class assignments: %w", err)
	}
	defer rows.Close()

	var out []models.ClassAssignment
	for rows.Next() {
		var tID, cID, tenID uuid.UUID
		if err := rows.Scan(&tID, &cID, &tenID); err != nil {
			return nil, fmt.Errorf("scan class assignment: %w", err)
		}
		out = append(out, models.ClassAssignment{
			TeacherID: domain.UserID(tID),
			ClassID:   domain.ClassID(cID),
			TenantID:  domain.TenantID(tenID),
		})
	}
	return out, rows.Err()
}

func (s *Postgres) ListGuardianshipsByParent(ctx context.Context, tenantID domain.TenantID, parentID domain.UserID) ([]models.Guardianship, error) {
	query := `
		SELECT parent_id, student_id, tenant_id
		FROM guardianships
		WHERE tenant_id = $1 AND parent_id = $2
		ORDER BY student_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(parentID))
	if err != nil {
		return nil, fmt.Errorf("list guardianships: %w", err)
	}
	defer rows.Close()

	var out []models.Guardianship
	for rows.Next() {
		var pID, sID, tenID uuid.UUID
		if err := rows.Scan(&pID, &sID, &tenID); err != nil {
			return nil, fmt.Errorf("scan guardianship: %w", err)
		}
		out = append(out, models.Guardianship{
			ParentID:  domain.UserID(pID),
			StudentID: domain.StudentID(sID),
			TenantID:  domain.TenantID(tenID),
		})
	}
	return out, rows.Err()
}

func (s *Postgres) ListClassIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.ClassID, error) {
	query := `
		SELECT class_id FROM enrollments WHERE tenant_id = $1
		UNION
		SELECT class_id FROM class_assignments WHERE tenant_id = $1
		ORDER BY class_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list class ids: %w", err)
	}
	defer rows.Close()

	var out []domain.ClassID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan class id: %w", err)
		}
		out = append(out, domain.ClassID(id))
	}
	return out, rows.Err()
}

func (s *Postgres) ListStudentIDs(ctx context.Context, tenantID domain.TenantID) ([]domain.StudentID, error) {
	query := `
		SELECT DISTINCT student_id FROM enrollments
		WHERE tenant_id = $1 AND status = 'active'
		ORDER BY student_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list student ids: %w", err)
	}
	defer rows.Close()

	var out []domain.StudentID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan student id: %w", err)
		}
		out = append(out, domain.StudentID(id))
	}
	return out, rows.Err()
}

func (s *Postgres) CountTeachers(ctx context.Context, tenantID domain.TenantID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT teacher_id) FROM class_assignments WHERE tenant_id = $1`,
		uuid.UUID(tenantID)).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return count, nil
}
