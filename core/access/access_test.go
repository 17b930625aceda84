package access

import (
	"log"
	"os"
	"testing"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

func newTestFilter() *Filter {
	return NewFilter(core.NewStdLogger(log.New(os.Stdout, "TEST : ", 0)))
}

func student(withProfile bool) user.Identity {
	ident := user.Identity{User: user.User{ID: 1, Role: user.RoleStudent}}
	if withProfile {
		ident.Student = &user.StudentProfile{ID: 10, UserID: 1}
	}
	return ident
}

func teacher(withProfile bool) user.Identity {
	ident := user.Identity{User: user.User{ID: 2, Role: user.RoleTeacher}}
	if withProfile {
		ident.Teacher = &user.TeacherProfile{ID: 20, UserID: 2}
	}
	return ident
}

func admin() user.Identity {
	return user.Identity{User: user.User{ID: 3, Role: user.RoleAdmin}}
}

func TestRequireStudent(t *testing.T) {
	f := newTestFilter()

	profile, err := f.RequireStudent(student(true))
	if err != nil {
		t.Fatalf("RequireStudent() error = %v", err)
	}
	if profile.ID != 10 {
		t.Errorf("profile.ID = %d, want 10", profile.ID)
	}

	// wrong role is a permission error
	if _, err = f.RequireStudent(teacher(true)); err == nil {
		t.Fatal("RequireStudent(teacher) error = nil")
	} else if _, ok := err.(*core.PermissionError); !ok {
		t.Errorf("RequireStudent(teacher) error = %T, want *core.PermissionError", err)
	}

	// matching role without profile is a distinct condition
	if _, err = f.RequireStudent(student(false)); err == nil {
		t.Fatal("RequireStudent(no profile) error = nil")
	} else if _, ok := err.(*core.ProfileMissingError); !ok {
		t.Errorf("RequireStudent(no profile) error = %T, want *core.ProfileMissingError", err)
	}
}

func TestRequireTeacher(t *testing.T) {
	f := newTestFilter()

	profile, err := f.RequireTeacher(teacher(true))
	if err != nil {
		t.Fatalf("RequireTeacher() error = %v", err)
	}
	if profile.ID != 20 {
		t.Errorf("profile.ID = %d, want 20", profile.ID)
	}

	if _, err = f.RequireTeacher(student(true)); err == nil {
		t.Fatal("RequireTeacher(student) error = nil")
	} else if _, ok := err.(*core.PermissionError); !ok {
		t.Errorf("RequireTeacher(student) error = %T, want *core.PermissionError", err)
	}

	if _, err = f.RequireTeacher(teacher(false)); err == nil {
		t.Fatal("RequireTeacher(no profile) error = nil")
	} else if _, ok := err.(*core.ProfileMissingError); !ok {
		t.Errorf("RequireTeacher(no profile) error = %T, want *core.ProfileMissingError", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	f := newTestFilter()

	if err := f.RequireAdmin(admin()); err != nil {
		t.Errorf("RequireAdmin() error = %v", err)
	}
	if err := f.RequireAdmin(student(true)); err == nil {
		t.Error("RequireAdmin(student) error = nil")
	}
}

func TestRequireGroupOwner(t *testing.T) {
	f := newTestFilter()
	ident := teacher(true)

	owned := course.Group{ID: 1, Teacher: &course.TeacherInfo{UserID: ident.User.ID}}
	foreign := course.Group{ID: 2, Teacher: &course.TeacherInfo{UserID: 99}}
	orphan := course.Group{ID: 3}

	if err := f.RequireGroupOwner(ident, owned); err != nil {
		t.Errorf("RequireGroupOwner(owned) error = %v", err)
	}
	if err := f.RequireGroupOwner(ident, foreign); err == nil {
		t.Error("RequireGroupOwner(foreign) error = nil")
	}
	if err := f.RequireGroupOwner(ident, orphan); err == nil {
		t.Error("RequireGroupOwner(orphan) error = nil")
	}
	if err := f.RequireGroupOwner(student(true), owned); err == nil {
		t.Error("RequireGroupOwner(student) error = nil")
	}
}
