package scope

import (
	"context"
	"log/slog"

	"classdesk/internal/directory/store"
	"classdesk/pkg/domain"
	dErrors "classdesk/pkg/domain-errors"
)

// Resolver computes a principal's visibility Set from the scoping graph.
type Resolver struct {
	directory store.Store
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver constructs a Resolver over the directory store.
func NewResolver(directory store.Store, opts ...Option) *Resolver {
	r := &Resolver{directory: directory, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve derives the principal's Set.
//
//   - Admin: every class and student in the tenant, unrestricted.
//   - Teacher: assigned classes plus every student enrolled in them.
//   - Student: themselves plus their enrolled classes.
//   - Parent: their children plus the union of the children's classes.
//
// Errors: CodeValidation when the principal is malformed (unknown role,
// missing tenant); CodeUnavailable when the directory store fails. An empty
// result is a valid Set, never an error.
func (r *Resolver) Resolve(ctx context.Context, principal domain.Principal) (Set, error) {
	if err := principal.Validate(); err != nil {
		return Set{}, err
	}

	switch principal.Role {
	case domain.RoleAdmin:
		return r.resolveAdmin(ctx, principal.TenantID)
	case domain.RoleTeacher:
		return r.resolveTeacher(ctx, principal)
	case domain.RoleStudent:
		return r.resolveStudent(ctx, principal)
	case domain.RoleParent:
		return r.resolveParent(ctx, principal)
	default:
		// Unreachable after Validate; kept so a new role cannot slip
		// through with an empty scope that looks authorized.
		return Set{}, dErrors.New(dErrors.CodeValidation, "principal role is unrecognized")
	}
}

func (r *Resolver) resolveAdmin(ctx context.Context, tenantID domain.TenantID) (Set, error) {
	classIDs, err := r.directory.ListClassIDs(ctx, tenantID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list tenant classes")
	}
	studentIDs, err := r.directory.ListStudentIDs(ctx, tenantID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list tenant students")
	}
	return NewUnrestrictedSet(classIDs, studentIDs), nil
}

func (r *Resolver) resolveTeacher(ctx context.Context, principal domain.Principal) (Set, error) {
	assignments, err := r.directory.ListAssignmentsByTeacher(ctx, principal.TenantID, principal.UserID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list class assignments")
	}
	classIDs := make([]domain.ClassID, 0, len(assignments))
	for _, a := range assignments {
		classIDs = append(classIDs, a.ClassID)
	}

	enrollments, err := r.directory.ListEnrollmentsByClasses(ctx, principal.TenantID, classIDs)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list class enrollments")
	}
	studentIDs := make([]domain.StudentID, 0, len(enrollments))
	for _, e := range enrollments {
		studentIDs = append(studentIDs, e.StudentID)
	}
	return NewSet(classIDs, studentIDs), nil
}

func (r *Resolver) resolveStudent(ctx context.Context, principal domain.Principal) (Set, error) {
	studentID := principal.UserID.AsStudent()
	enrollments, err := r.directory.ListEnrollmentsByStudent(ctx, principal.TenantID, studentID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list enrollments")
	}
	classIDs := make([]domain.ClassID, 0, len(enrollments))
	for _, e := range enrollments {
		classIDs = append(classIDs, e.ClassID)
	}
	return NewSet(classIDs, []domain.StudentID{studentID}), nil
}

func (r *Resolver) resolveParent(ctx context.Context, principal domain.Principal) (Set, error) {
	guardianships, err := r.directory.ListGuardianshipsByParent(ctx, principal.TenantID, principal.UserID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list guardianships")
	}
	studentIDs := make([]domain.StudentID, 0, len(guardianships))
	for _, g := range guardianships {
		studentIDs = append(studentIDs, g.StudentID)
	}

	classSeen := make(map[domain.ClassID]struct{})
	var classIDs []domain.ClassID
	for _, studentID := range studentIDs {
		enrollments, err := r.directory.ListEnrollmentsByStudent(ctx, principal.TenantID, studentID)
		if err != nil {
			return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list child enrollments")
		}
		for _, e := range enrollments {
			if _, ok := classSeen[e.ClassID]; !ok {
				classSeen[e.ClassID] = struct{}{}
				classIDs = append(classIDs, e.ClassID)
			}
		}
	}
	return NewSet(classIDs, studentIDs), nil
}
