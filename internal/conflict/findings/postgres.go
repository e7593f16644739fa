package findings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"classdesk/internal/conflict"
	"classdesk/pkg/domain"
)

// Postgres persists conflict findings in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed findings store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Upsert batches findings with unnest instead of per-row inserts.
func (s *Postgres) Upsert(ctx context.Context, fs []Finding) error {
	if len(fs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(fs))
	tenants := make([]uuid.UUID, len(fs))
	kinds := make([]string, len(fs))
	subjects := make([]uuid.UUID, len(fs))
	days := make([]int, len(fs))
	recordAs := make([]uuid.UUID, len(fs))
	recordBs := make([]uuid.UUID, len(fs))
	detected := make([]time.Time, len(fs))
	for i, f := range fs {
		ids[i] = f.ID
		tenants[i] = uuid.UUID(f.TenantID)
		kinds[i] = string(f.Kind)
		subjects[i] = f.SubjectID
		days[i] = int(f.DayOfWeek)
		recordAs[i] = f.RecordA
		recordBs[i] = f.RecordB
		detected[i] = f.DetectedAt
	}

	query := `
		INSERT INTO conflict_findings (id, tenant_id, kind, subject_id, day_of_week, record_a, record_b, detected_at)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::uuid[], $5::int[], $6::uuid[], $7::uuid[], $8::timestamptz[])
		ON CONFLICT (id) DO UPDATE SET
			detected_at = EXCLUDED.detected_at
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(tenants), pq.Array(kinds), pq.Array(subjects),
		pq.Array(days), pq.Array(recordAs), pq.Array(recordBs), pq.Array(detected))
	if err != nil {
		return fmt.Errorf("upsert findings: %w", err)
	}
	return nil
}

func (s *Postgres) ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]Finding, error) {
	query := `
		SELECT id, tenant_id, kind, subject_id, day_of_week, record_a, record_b, detected_at
		FROM conflict_findings
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		var f Finding
		var tenant uuid.UUID
		var kind string
		var day int
		if err := rows.Scan(&f.ID, &tenant, &kind, &f.SubjectID, &day, &f.RecordA, &f.RecordB, &f.DetectedAt); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.TenantID = domain.TenantID(tenant)
		f.Kind = conflict.Kind(kind)
		f.DayOfWeek = time.Weekday(day)
		out = append(out, f)
	}
	return out, rows.Err()
}
