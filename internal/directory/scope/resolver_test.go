package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classdesk/internal/directory/models"
	"classdesk/internal/directory/store"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// fixture is a small tenant: two classes, teacher on classA, studentA in
// classA, studentB in both, parent guarding studentA.
type fixture struct {
	tenantID  domain.TenantID
	classA    domain.ClassID
	classB    domain.ClassID
	teacherID domain.UserID
	parentID  domain.UserID
	studentA  domain.StudentID
	studentB  domain.StudentID
	directory *store.InMemory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		tenantID:  domain.TenantID(uuid.New()),
		classA:    domain.ClassID(uuid.New()),
		classB:    domain.ClassID(uuid.New()),
		teacherID: domain.UserID(uuid.New()),
		parentID:  domain.UserID(uuid.New()),
		studentA:  domain.StudentID(uuid.New()),
		studentB:  domain.StudentID(uuid.New()),
		directory: store.NewInMemory(),
	}

	require.NoError(t, f.directory.AddClassAssignment(ctx, models.ClassAssignment{
		TeacherID: f.teacherID, ClassID: f.classA, TenantID: f.tenantID,
	}))
	require.NoError(t, f.directory.AddEnrollment(ctx, models.Enrollment{
		StudentID: f.studentA, ClassID: f.classA, TenantID: f.tenantID, Status: models.EnrollmentActive,
	}))
	require.NoError(t, f.directory.AddEnrollment(ctx, models.Enrollment{
		StudentID: f.studentB, ClassID: f.classA, TenantID: f.tenantID, Status: models.EnrollmentActive,
	}))
	require.NoError(t, f.directory.AddEnrollment(ctx, models.Enrollment{
		StudentID: f.studentB, ClassID: f.classB, TenantID: f.tenantID, Status: models.EnrollmentActive,
	}))
	require.NoError(t, f.directory.AddGuardianship(ctx, models.Guardianship{
		ParentID: f.parentID, StudentID: f.studentA, TenantID: f.tenantID,
	}))
	return f
}

func (f fixture) principal(userID domain.UserID, role domain.Role) domain.Principal {
	return domain.Principal{UserID: userID, Role: role, TenantID: f.tenantID}
}

func TestResolve_Admin(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	set, err := r.Resolve(context.Background(), f.principal(domain.UserID(uuid.New()), domain.RoleAdmin))
	require.NoError(t, err)

	assert.True(t, set.Unrestricted)
	assert.Equal(t, 2, set.ClassCount())
	assert.Equal(t, 2, set.StudentCount())
	// Unrestricted answers true even for ids outside the materialized sets.
	assert.True(t, set.HasClass(domain.ClassID(uuid.New())))
	assert.True(t, set.HasStudent(domain.StudentID(uuid.New())))
}

func TestResolve_Teacher(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	set, err := r.Resolve(context.Background(), f.principal(f.teacherID, domain.RoleTeacher))
	require.NoError(t, err)

	assert.False(t, set.Unrestricted)
	assert.True(t, set.HasClass(f.classA))
	assert.False(t, set.HasClass(f.classB), "unassigned class must stay invisible")
	assert.True(t, set.HasStudent(f.studentA))
	assert.True(t, set.HasStudent(f.studentB), "students reach the teacher through class enrollment")
}

func TestResolve_Student(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	set, err := r.Resolve(context.Background(), f.principal(domain.UserID(f.studentB), domain.RoleStudent))
	require.NoError(t, err)

	assert.True(t, set.HasClass(f.classA))
	assert.True(t, set.HasClass(f.classB))
	assert.True(t, set.HasStudent(f.studentB))
	assert.False(t, set.HasStudent(f.studentA), "classmates are not visible to a student")
}

func TestResolve_Parent(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	set, err := r.Resolve(context.Background(), f.principal(f.parentID, domain.RoleParent))
	require.NoError(t, err)

	assert.True(t, set.HasStudent(f.studentA))
	assert.False(t, set.HasStudent(f.studentB))
	assert.True(t, set.HasClass(f.classA), "children's classes are visible")
	assert.False(t, set.HasClass(f.classB))
}

func TestResolve_EmptyScopeIsValid(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	for _, role := range []domain.Role{domain.RoleTeacher, domain.RoleStudent, domain.RoleParent} {
		t.Run(string(role), func(t *testing.T) {
			set, err := r.Resolve(context.Background(), f.principal(domain.UserID(uuid.New()), role))
			require.NoError(t, err)
			assert.False(t, set.Unrestricted)
			assert.Zero(t, set.ClassCount())
			if role == domain.RoleStudent {
				// A student always sees themselves even with no enrollments.
				assert.Equal(t, 1, set.StudentCount())
			} else {
				assert.Zero(t, set.StudentCount())
			}
		})
	}
}

func TestResolve_InvalidPrincipal(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(f.directory)

	tests := []struct {
		name      string
		principal domain.Principal
	}{
		{"zero principal", domain.Principal{}},
		{"missing tenant", domain.Principal{UserID: domain.UserID(uuid.New()), Role: domain.RoleAdmin}},
		{"unknown role", domain.Principal{UserID: domain.UserID(uuid.New()), Role: "superuser", TenantID: f.tenantID}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tc.principal)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

// failingDirectory fails every read to exercise the unavailable path.
type failingDirectory struct {
	store.Store
}

func (failingDirectory) ListClassIDs(context.Context, domain.TenantID) ([]domain.ClassID, error) {
	return nil, errors.New("connection refused")
}

func (failingDirectory) ListAssignmentsByTeacher(context.Context, domain.TenantID, domain.UserID) ([]models.ClassAssignment, error) {
	return nil, errors.New("connection refused")
}

func (failingDirectory) ListEnrollmentsByStudent(context.Context, domain.TenantID, domain.StudentID) ([]models.Enrollment, error) {
	return nil, errors.New("connection refused")
}

func (failingDirectory) ListGuardianshipsByParent(context.Context, domain.TenantID, domain.UserID) ([]models.Guardianship, error) {
	return nil, errors.New("connection refused")
}

func TestResolve_StoreFailureIsUnavailable(t *testing.T) {
	f := newFixture(t)
	r := NewResolver(failingDirectory{})

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleTeacher, domain.RoleStudent, domain.RoleParent} {
		t.Run(string(role), func(t *testing.T) {
			_, err := r.Resolve(context.Background(), f.principal(domain.UserID(uuid.New()), role))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		})
	}
}

func TestSet_DeterministicIDOrder(t *testing.T) {
	classIDs := []domain.ClassID{
		domain.ClassID(uuid.New()), domain.ClassID(uuid.New()), domain.ClassID(uuid.New()),
	}
	set := NewSet(classIDs, nil)

	first := set.ClassIDs()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, set.ClassIDs())
	}
}
