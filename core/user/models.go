package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

	roleLabels = map[string]string{
		RoleStudent: "Estudiante",
		RoleTeacher: "Docente",
		RoleAdmin:   "Administrativo",
	}
)

// RoleLabel returns the human-readable display name for a role.
func RoleLabel(role string) string {
	return roleLabels[role]
}

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"nombre_completo"`
	Email        string    `json:"correo"`
	Cedula       string    `json:"cedula,omitempty"`
	Phone        string    `json:"telefono,omitempty"`
	Role         string    `json:"rol"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// StudentProfile is the one-to-one student extension of a User.
type StudentProfile struct {
	ID            int       `json:"id"`
	UserID        int       `json:"-"`
	StudyLevel    string    `json:"nivel_estudio"`
	BirthDate     time.Time `json:"fecha_nacimiento"`
	Gender        string    `json:"genero"`
	MaritalStatus string    `json:"estado_civil"`
	Parish        string    `json:"parroquia,omitempty"`
	IncomeSource  string    `json:"origen_ingresos,omitempty"`
}

// TeacherProfile is the one-to-one teacher extension of a User.
type TeacherProfile struct {
	ID             int       `json:"id"`
	UserID         int       `json:"-"`
	Specialization string    `json:"especializacion"`
	HireDate       time.Time `json:"hire_date"`
}

// PasswordResetToken is a single-use, short-lived token mailed to the user.
type PasswordResetToken struct {
	ID        int
	UserID    int
	Token     uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	IsUsed    bool
}

func (t PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t PasswordResetToken) IsValid(now time.Time) bool {
	return !t.IsUsed && !t.IsExpired(now)
}

// NewUser contains the information needed to register a new User along with
// its role-specific profile.
type NewUser struct {
	FullName        string `json:"nombre_completo" validate:"required"`
	Email           string `json:"correo" validate:"required,email"`
	Cedula          string `json:"cedula" validate:"omitempty,max=20"`
	Phone           string `json:"telefono" validate:"omitempty,max=20"`
	Role            string `json:"rol" validate:"required,role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"confirm_password" validate:"required,eqfield=Password"`

	// student profile fields; required when rol=student
	StudyLevel    string `json:"nivel_estudio" validate:"required_if_student"`
	BirthDate     string `json:"fecha_nacimiento" validate:"required_if_student"`
	Gender        string `json:"genero" validate:"required_if_student"`
	MaritalStatus string `json:"estado_civil" validate:"required_if_student"`
	Parish        string `json:"parroquia"`
	IncomeSource  string `json:"origen_ingresos"`

	// teacher profile fields; required when rol=teacher
	Specialization string `json:"especializacion" validate:"required_if_teacher"`
	HireDate       string `json:"hire_date"`
}

func (nu *NewUser) Validate(ctx context.Context, svc Service) error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Cedula = core.CleanString(nu.Cedula)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if err := validatePassword(nu.Password, nu.FullName, nu.Email); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email, nu.Cedula)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FullName string `json:"nombre_completo"`
	Email    string `json:"correo" validate:"omitempty,email"`
	Cedula   string `json:"cedula" validate:"omitempty,max=20"`
	Phone    string `json:"telefono" validate:"omitempty,max=20"`
	IsActive *bool  `json:"is_active"`
	Role     string `json:"rol" validate:"omitempty,role"`

	// profile fields, applied to whichever profile the user owns
	StudyLevel     string `json:"nivel_estudio"`
	Gender         string `json:"genero"`
	MaritalStatus  string `json:"estado_civil"`
	Parish         string `json:"parroquia"`
	IncomeSource   string `json:"origen_ingresos"`
	Specialization string `json:"especializacion"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, svc Service) error {
	name := core.CleanString(uu.FullName)
	if name != "" {
		uu.FullName = name
	} else {
		uu.FullName = origUsr.FullName
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Email, uu.Cedula, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token" validate:"required,uuid4"`
	Password        string `json:"new_password" validate:"required"`
	PasswordConfirm string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error {
	if err := core.Validate.Struct(rp); err != nil {
		return err
	}
	return validatePassword(rp.Password)
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"new_password" validate:"required"`
	PasswordConfirm string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (cp ChangePassword) Validate(usr User) error {
	if err := core.Validate.Struct(cp); err != nil {
		return err
	}
	if err := usr.CheckPassword(cp.CurrentPassword); err != nil {
		return core.NewValidationError(nil, core.FieldError{
			Field: "current_password", Error: "current password is incorrect"})
	}
	return validatePassword(cp.Password, usr.FullName, usr.Email)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Role        string    `query:"rol"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
