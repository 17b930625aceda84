package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	requiredStudentTag  = "required_if_student"
	requiredStudentText = "this field is required for students"

	requiredTeacherTag  = "required_if_teacher"
	requiredTeacherText = "this field is required for teachers"

	// password policy
	pwdMinLen     = 6
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText   = "password must not contain whitespace"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(roleTag, roleText)

	core.Validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(requiredStudentTag, requiredStudentText)
	core.RegisterCustomTranslation(requiredTeacherTag, requiredTeacherText)
}

// roleValidation checks that the provided role is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

// newUserStructValidation enforces the role-specific profile fields:
// a student registration must carry its study/personal fields, a teacher
// registration its specialization. Nothing is persisted on failure.
func newUserStructValidation(sl validator.StructLevel) {
	nu := sl.Current().Interface().(NewUser)

	switch nu.Role {
	case RoleStudent:
		if nu.StudyLevel == "" {
			sl.ReportError(nu.StudyLevel, "StudyLevel", "nivel_estudio", requiredStudentTag, "")
		}
		if nu.BirthDate == "" {
			sl.ReportError(nu.BirthDate, "BirthDate", "fecha_nacimiento", requiredStudentTag, "")
		}
		if nu.Gender == "" {
			sl.ReportError(nu.Gender, "Gender", "genero", requiredStudentTag, "")
		}
		if nu.MaritalStatus == "" {
			sl.ReportError(nu.MaritalStatus, "MaritalStatus", "estado_civil", requiredStudentTag, "")
		}
	case RoleTeacher:
		if nu.Specialization == "" {
			sl.ReportError(nu.Specialization, "Specialization", "especializacion", requiredTeacherTag, "")
		}
	}
}

// validatePassword applies the password policy against the given user attributes.
func validatePassword(pwd string, attrs ...string) error {
	var fldErrs []core.FieldError
	fail := func(text string) {
		fldErrs = append(fldErrs, core.FieldError{Field: "password", Error: text})
	}

	if len(pwd) < pwdMinLen {
		fail(pwdMinLenText)
	}
	if strings.ContainsAny(pwd, " \t\n") {
		fail(pwdNoSpaceText)
	}
	if allNumeric(pwd) {
		fail(pwdNotAllNumText)
	}
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(splitChars(strings.ToLower(pwd)), splitChars(strings.ToLower(attr)))
		if matcher.QuickRatio() >= pwdMaxSim {
			fail(pwdAttrSimText)
			break
		}
	}

	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

func allNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
