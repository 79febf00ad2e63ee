package services

import (
	"context"
	"log"

	"essayhub/models"

	"github.com/casbin/casbin/v2"
)

// PolicyStore is the slice of the persistence gateway the access policy
// needs to resolve ownership and enrollment.
type PolicyStore interface {
	GetClassroom(ctx context.Context, id string) (*models.Classroom, error)
	IsEnrolled(ctx context.Context, classroomID, studentID string) (bool, error)
}

// AccessPolicy decides whether a caller may act on an essay. Role
// capabilities go through the casbin enforcer; ownership and
// classroom-teacher relations are data lookups.
type AccessPolicy struct {
	enforcer *casbin.Enforcer
	store    PolicyStore
}

func NewAccessPolicy(enforcer *casbin.Enforcer, store PolicyStore) *AccessPolicy {
	return &AccessPolicy{enforcer: enforcer, store: store}
}

func (p *AccessPolicy) enforce(role, resource, action string) bool {
	allowed, err := p.enforcer.Enforce(role, resource, action)
	if err != nil {
		log.Printf("Casbin enforce error for %s/%s/%s: %v", role, resource, action, err)
		return false
	}
	return allowed
}

// isClassroomTeacher reports whether the user teaches the classroom the
// essay belongs to. Essays without a classroom have no teacher.
func (p *AccessPolicy) isClassroomTeacher(ctx context.Context, userID string, essay *models.Essay) bool {
	if essay.ClassroomID == nil {
		return false
	}
	classroom, err := p.store.GetClassroom(ctx, essay.ClassroomID.Hex())
	if err != nil {
		return false
	}
	return classroom.TeacherID.Hex() == userID
}

// CanView allows the author and the teacher of the essay's classroom.
func (p *AccessPolicy) CanView(ctx context.Context, userID, role string, essay *models.Essay) error {
	if !p.enforce(role, "essay", "read") {
		return &PermissionError{Action: "view this essay"}
	}
	if essay.AuthorID.Hex() == userID {
		return nil
	}
	if role == models.RoleTeacher && p.isClassroomTeacher(ctx, userID, essay) {
		return nil
	}
	return &PermissionError{Action: "view this essay"}
}

// CanEdit allows the author to change the text and the classroom
// teacher to correct metadata.
func (p *AccessPolicy) CanEdit(ctx context.Context, userID, role string, essay *models.Essay) error {
	if !p.enforce(role, "essay", "update") {
		return &PermissionError{Action: "edit this essay"}
	}
	if essay.AuthorID.Hex() == userID {
		return nil
	}
	if role == models.RoleTeacher && p.isClassroomTeacher(ctx, userID, essay) {
		return nil
	}
	return &PermissionError{Action: "edit this essay"}
}

// CanDelete mirrors CanEdit: owner or classroom teacher.
func (p *AccessPolicy) CanDelete(ctx context.Context, userID, role string, essay *models.Essay) error {
	if !p.enforce(role, "essay", "delete") {
		return &PermissionError{Action: "delete this essay"}
	}
	if essay.AuthorID.Hex() == userID {
		return nil
	}
	if role == models.RoleTeacher && p.isClassroomTeacher(ctx, userID, essay) {
		return nil
	}
	return &PermissionError{Action: "delete this essay"}
}

// CanManageClassrooms gates classroom creation and roster changes.
func (p *AccessPolicy) CanManageClassrooms(role string) error {
	if !p.enforce(role, "classroom", "manage") {
		return &PermissionError{Action: "manage classrooms"}
	}
	return nil
}

// CanGrade allows teachers only; when the essay sits in a classroom the
// grader must be its teacher.
func (p *AccessPolicy) CanGrade(ctx context.Context, userID, role string, essay *models.Essay) error {
	if !p.enforce(role, "evaluation", "write") {
		return &PermissionError{Action: "grade this essay"}
	}
	if essay.ClassroomID != nil && !p.isClassroomTeacher(ctx, userID, essay) {
		return &PermissionError{Action: "grade this essay"}
	}
	return nil
}
