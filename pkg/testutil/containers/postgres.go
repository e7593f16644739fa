//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the production migrations closely enough for store tests.
const schema = `
CREATE TABLE IF NOT EXISTS enrollments (
	student_id uuid NOT NULL,
	class_id   uuid NOT NULL,
	tenant_id  uuid NOT NULL,
	status     text NOT NULL,
	PRIMARY KEY (student_id, class_id)
);
CREATE INDEX IF NOT EXISTS enrollments_tenant_idx ON enrollments (tenant_id);

CREATE TABLE IF NOT EXISTS guardianships (
	parent_id  uuid NOT NULL,
	student_id uuid NOT NULL,
	tenant_id  uuid NOT NULL,
	PRIMARY KEY (parent_id, student_id)
);
CREATE INDEX IF NOT EXISTS guardianships_tenant_idx ON guardianships (tenant_id);

CREATE TABLE IF NOT EXISTS class_assignments (
	teacher_id uuid NOT NULL,
	class_id   uuid NOT NULL,
	tenant_id  uuid NOT NULL,
	PRIMARY KEY (teacher_id, class_id)
);
CREATE INDEX IF NOT EXISTS class_assignments_tenant_idx ON class_assignments (tenant_id);

CREATE TABLE IF NOT EXISTS announcements (
	id         uuid PRIMARY KEY,
	tenant_id  uuid NOT NULL,
	scope      text NOT NULL,
	class_id   uuid,
	role       text,
	created_at timestamptz NOT NULL,
	body       text NOT NULL
);
CREATE INDEX IF NOT EXISTS announcements_tenant_idx ON announcements (tenant_id);

CREATE TABLE IF NOT EXISTS timetable_entries (
	id           uuid PRIMARY KEY,
	tenant_id    uuid NOT NULL,
	class_id     uuid NOT NULL,
	day_of_week  int NOT NULL,
	start_minute int NOT NULL,
	end_minute   int NOT NULL,
	subject      text NOT NULL,
	room_id      uuid NOT NULL
);
CREATE INDEX IF NOT EXISTS timetable_entries_tenant_idx ON timetable_entries (tenant_id);

CREATE TABLE IF NOT EXISTS assessments (
	id           uuid PRIMARY KEY,
	tenant_id    uuid NOT NULL,
	class_id     uuid NOT NULL,
	window_start timestamptz NOT NULL,
	window_end   timestamptz NOT NULL,
	title        text NOT NULL
);
CREATE INDEX IF NOT EXISTS assessments_tenant_idx ON assessments (tenant_id);

CREATE TABLE IF NOT EXISTS grades (
	assessment_id uuid NOT NULL,
	student_id    uuid NOT NULL,
	tenant_id     uuid NOT NULL,
	score         double precision NOT NULL,
	max_score     double precision NOT NULL,
	PRIMARY KEY (assessment_id, student_id)
);
CREATE INDEX IF NOT EXISTS grades_tenant_idx ON grades (tenant_id);

CREATE TABLE IF NOT EXISTS attendance_records (
	student_id uuid NOT NULL,
	class_id   uuid NOT NULL,
	tenant_id  uuid NOT NULL,
	date       date NOT NULL,
	status     text NOT NULL,
	PRIMARY KEY (student_id, class_id, date)
);
CREATE INDEX IF NOT EXISTS attendance_records_tenant_idx ON attendance_records (tenant_id);

CREATE TABLE IF NOT EXISTS conflict_findings (
	id          uuid PRIMARY KEY,
	tenant_id   uuid NOT NULL,
	kind        text NOT NULL,
	subject_id  uuid NOT NULL,
	day_of_week int NOT NULL,
	record_a    uuid NOT NULL,
	record_b    uuid NOT NULL,
	detected_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS conflict_findings_tenant_idx ON conflict_findings (tenant_id);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("classdesk"),
		tcpostgres.WithUsername("classdesk"),
		tcpostgres.WithPassword("classdesk"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// Truncate clears every table. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE enrollments, guardianships, class_assignments,
			announcements, timetable_entries, assessments,
			grades, attendance_records, conflict_findings`)
	return err
}
