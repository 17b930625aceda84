package user

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

var (
	// errors
	ErrNotFound     = core.ErrNotFound
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrCedulaExists = errors.New("a user with this cedula already exists")
)

// Identity is a resolved account: the user plus whichever role profile it owns.
// Resolved once at request entry so handlers never probe for profile presence.
type Identity struct {
	User    User            `json:"usuario"`
	Student *StudentProfile `json:"-"`
	Teacher *TeacherProfile `json:"-"`
}

type (
	Repository interface {
		// CheckUniqueness returns ErrEmailExists/ErrCedulaExists when another
		// user (excluding excludedUsers) already holds the value.
		CheckUniqueness(ctx context.Context, email, cedula string, excludedUsers ...User) error
		// CreateUser persists the user and its role profile in one transaction;
		// nothing is persisted when any part fails.
		CreateUser(ctx context.Context, usr User, student *StudentProfile, teacher *TeacherProfile) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search matches FullName, Email or Cedula case-insensitively.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...int) error

		GetStudentProfile(ctx context.Context, userID int) (StudentProfile, error)
		GetTeacherProfile(ctx context.Context, userID int) (TeacherProfile, error)
		UpdateStudentProfile(ctx context.Context, profile StudentProfile) (StudentProfile, error)
		UpdateTeacherProfile(ctx context.Context, profile TeacherProfile) (TeacherProfile, error)

		CreateResetToken(ctx context.Context, token PasswordResetToken) (PasswordResetToken, error)
		GetResetToken(ctx context.Context, token uuid.UUID) (PasswordResetToken, error)
		// InvalidateResetTokens marks all of the user's unused tokens as used.
		InvalidateResetTokens(ctx context.Context, userID int) error
		MarkResetTokenUsed(ctx context.Context, tokenID int) error
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (Identity, error)
		Authenticate(ctx context.Context, email, pwd string) (Identity, error)
		ResolveIdentity(ctx context.Context, userID int) (Identity, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Filter(ctx context.Context, filter QueryFilter) ([]User, error)
		Update(ctx context.Context, id int, uu UpdateUser) (User, error)
		UpdateOwnProfile(ctx context.Context, identity Identity, uu UpdateUser) (Identity, error)
		Delete(ctx context.Context, ids ...int) error
		CheckUniqueness(ctx context.Context, email, cedula string, excludedUsers ...User) error
		RequestPasswordReset(ctx context.Context, email string) error
		VerifyResetToken(ctx context.Context, token string) (PasswordResetToken, User, error)
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		ChangePassword(ctx context.Context, usr User, cp ChangePassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{repo: repo, mailSvc: mailSvc}
}

func (svc *service) CheckUniqueness(ctx context.Context, email, cedula string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(ctx, email, cedula, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrEmailExists:
			field = "correo"
		case ErrCedulaExists:
			field = "cedula"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (Identity, error) {
	now := time.Now().UTC()
	usr := User{
		FullName:  nu.FullName,
		Email:     nu.Email,
		Cedula:    nu.Cedula,
		Phone:     nu.Phone,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return Identity{}, err
	}

	var student *StudentProfile
	var teacher *TeacherProfile
	switch nu.Role {
	case RoleStudent:
		birthDate, err := parseDate(nu.BirthDate)
		if err != nil {
			return Identity{}, core.NewValidationError(err, core.FieldError{
				Field: "fecha_nacimiento", Error: "invalid date, expected YYYY-MM-DD"})
		}
		student = &StudentProfile{
			StudyLevel:    nu.StudyLevel,
			BirthDate:     birthDate,
			Gender:        nu.Gender,
			MaritalStatus: nu.MaritalStatus,
			Parish:        nu.Parish,
			IncomeSource:  nu.IncomeSource,
		}
	case RoleTeacher:
		hireDate := now
		if nu.HireDate != "" {
			parsed, err := parseDate(nu.HireDate)
			if err != nil {
				return Identity{}, core.NewValidationError(err, core.FieldError{
					Field: "hire_date", Error: "invalid date, expected YYYY-MM-DD"})
			}
			hireDate = parsed
		}
		teacher = &TeacherProfile{
			Specialization: nu.Specialization,
			HireDate:       hireDate,
		}
	}

	usr, err := svc.repo.CreateUser(ctx, usr, student, teacher)
	if err != nil {
		return Identity{}, err
	}
	return svc.ResolveIdentity(ctx, usr.ID)
}

// Authenticate checks credentials and account state. A role-matching account
// without its profile is rejected with a ProfileMissingError, which is a
// different condition from bad credentials or a deactivated account.
func (svc *service) Authenticate(ctx context.Context, email, pwd string) (Identity, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Identity{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return Identity{}, ErrNotFound
	}
	if !usr.IsActive {
		return Identity{}, core.NewValidationError(errors.New("cuenta desactivada"))
	}

	identity, err := svc.ResolveIdentity(ctx, usr.ID)
	if err != nil {
		return Identity{}, err
	}
	switch {
	case usr.IsStudent() && identity.Student == nil:
		return Identity{}, core.NewProfileMissingError(RoleStudent)
	case usr.IsTeacher() && identity.Teacher == nil:
		return Identity{}, core.NewProfileMissingError(RoleTeacher)
	}
	return identity, nil
}

// ResolveIdentity loads the user and whatever role profile exists. Profile
// absence is not an error here; the access filter decides what it means.
func (svc *service) ResolveIdentity(ctx context.Context, userID int) (Identity, error) {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	identity := Identity{User: usr}

	switch usr.Role {
	case RoleStudent:
		profile, err := svc.repo.GetStudentProfile(ctx, usr.ID)
		if err == nil {
			identity.Student = &profile
		} else if pkgerrors.Cause(err) != ErrNotFound {
			return Identity{}, err
		}
	case RoleTeacher:
		profile, err := svc.repo.GetTeacherProfile(ctx, usr.ID)
		if err == nil {
			identity.Teacher = &profile
		} else if pkgerrors.Cause(err) != ErrNotFound {
			return Identity{}, err
		}
	}
	return identity, nil
}

func (svc *service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		FullName:  uu.FullName,
		Email:     uu.Email,
		Cedula:    uu.Cedula,
		Phone:     uu.Phone,
		Role:      uu.Role,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *service) UpdateOwnProfile(ctx context.Context, identity Identity, uu UpdateUser) (Identity, error) {
	// `is_active` and `rol` can only be changed by an admin
	uu.IsActive = nil
	uu.Role = ""

	if _, err := svc.Update(ctx, identity.User.ID, uu); err != nil {
		return Identity{}, err
	}

	if identity.Student != nil {
		profile := *identity.Student
		if uu.StudyLevel != "" {
			profile.StudyLevel = uu.StudyLevel
		}
		if uu.Gender != "" {
			profile.Gender = uu.Gender
		}
		if uu.MaritalStatus != "" {
			profile.MaritalStatus = uu.MaritalStatus
		}
		if uu.Parish != "" {
			profile.Parish = uu.Parish
		}
		if uu.IncomeSource != "" {
			profile.IncomeSource = uu.IncomeSource
		}
		if _, err := svc.repo.UpdateStudentProfile(ctx, profile); err != nil {
			return Identity{}, err
		}
	} else if identity.Teacher != nil && uu.Specialization != "" {
		profile := *identity.Teacher
		profile.Specialization = uu.Specialization
		if _, err := svc.repo.UpdateTeacherProfile(ctx, profile); err != nil {
			return Identity{}, err
		}
	}
	return svc.ResolveIdentity(ctx, identity.User.ID)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// RequestPasswordReset invalidates any previous tokens, issues a fresh
// single-use token and mails it. Delivery failure surfaces as a MailError.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}

	if err := svc.repo.InvalidateResetTokens(ctx, usr.ID); err != nil {
		return err
	}
	now := time.Now().UTC()
	token, err := svc.repo.CreateResetToken(ctx, PasswordResetToken{
		UserID:    usr.ID,
		Token:     uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(core.Conf.PasswordResetTimeout),
	})
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Recuperación de Contraseña",
		TemplateName: "password_reset",
		TemplateData: struct {
			FullName string
			Token    string
		}{usr.FullName, token.Token.String()},
	}
	if err := svc.mailSvc.SendMessage(msg); err != nil {
		return core.NewMailError(err)
	}
	return nil
}

func (svc *service) VerifyResetToken(ctx context.Context, token string) (PasswordResetToken, User, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return PasswordResetToken{}, User{}, ErrNotFound
	}
	rt, err := svc.repo.GetResetToken(ctx, id)
	if err != nil {
		return PasswordResetToken{}, User{}, err
	}
	usr, err := svc.repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return PasswordResetToken{}, User{}, err
	}
	return rt, usr, nil
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	rt, usr, err := svc.VerifyResetToken(ctx, rp.Token)
	if err != nil {
		return err
	}
	if !rt.IsValid(time.Now().UTC()) {
		return core.NewValidationError(errors.New("token expired or already used"))
	}

	if err := usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := svc.repo.UpdateUser(ctx, usr, nil); err != nil {
		return err
	}
	return svc.repo.MarkResetTokenUsed(ctx, rt.ID)
}

func (svc *service) ChangePassword(ctx context.Context, usr User, cp ChangePassword) error {
	if err := usr.SetPassword(cp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateUser(ctx, usr, nil)
	return err
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
