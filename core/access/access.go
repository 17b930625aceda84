// Package access centralizes the role, profile and ownership checks that sit
// between an authenticated identity and every protected operation.
package access

import (
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type Filter struct {
	logger core.Logger
}

func NewFilter(logger core.Logger) *Filter {
	return &Filter{logger: logger}
}

// RequireStudent admits students whose profile record exists. A wrong role
// is a permission error; a matching role with a missing profile is a
// distinct data-integrity condition.
func (f *Filter) RequireStudent(ident user.Identity) (user.StudentProfile, error) {
	if !ident.User.IsStudent() {
		f.deny(ident, "student role required")
		return user.StudentProfile{}, core.NewPermissionError("only students can access this resource")
	}
	if ident.Student == nil {
		f.deny(ident, "student profile missing")
		return user.StudentProfile{}, core.NewProfileMissingError(user.RoleStudent)
	}
	f.allow(ident, "student")
	return *ident.Student, nil
}

// RequireTeacher admits teachers whose profile record exists.
func (f *Filter) RequireTeacher(ident user.Identity) (user.TeacherProfile, error) {
	if !ident.User.IsTeacher() {
		f.deny(ident, "teacher role required")
		return user.TeacherProfile{}, core.NewPermissionError("only teachers can access this resource")
	}
	if ident.Teacher == nil {
		f.deny(ident, "teacher profile missing")
		return user.TeacherProfile{}, core.NewProfileMissingError(user.RoleTeacher)
	}
	f.allow(ident, "teacher")
	return *ident.Teacher, nil
}

// RequireAdmin admits administrative users. Admins carry no profile record.
func (f *Filter) RequireAdmin(ident user.Identity) error {
	if !ident.User.IsAdmin() {
		f.deny(ident, "admin role required")
		return core.NewPermissionError("only administrators can access this resource")
	}
	f.allow(ident, "admin")
	return nil
}

// RequireGroupOwner enforces that the identity is the teacher who manages
// the group.
func (f *Filter) RequireGroupOwner(ident user.Identity, group course.Group) error {
	if _, err := f.RequireTeacher(ident); err != nil {
		return err
	}
	if !group.OwnedBy(ident.User.ID) {
		f.deny(ident, "not the group owner")
		return core.NewPermissionError("you do not manage this course group")
	}
	return nil
}

func (f *Filter) allow(ident user.Identity, check string) {
	f.logger.Debug("access granted", "user_id", ident.User.ID, "role", ident.User.Role, "check", check)
}

func (f *Filter) deny(ident user.Identity, reason string) {
	f.logger.Info("access denied", "user_id", ident.User.ID, "role", ident.User.Role, "reason", reason)
}
