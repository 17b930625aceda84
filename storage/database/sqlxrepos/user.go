package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int         `db:"id"`
	FullName     string      `db:"nombre_completo"`
	Email        string      `db:"correo"`
	Cedula       null.String `db:"cedula"`
	Phone        null.String `db:"telefono"`
	Role         string      `db:"rol"`
	IsActive     bool        `db:"is_active"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		Cedula:       r.Cedula.String,
		Phone:        r.Phone.String,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type studentProfileRow struct {
	ID            int       `db:"id"`
	UserID        int       `db:"user_id"`
	StudyLevel    string    `db:"nivel_estudio"`
	BirthDate     null.Time `db:"fecha_nacimiento"`
	Gender        string    `db:"genero"`
	MaritalStatus string    `db:"estado_civil"`
	Parish        string    `db:"parroquia"`
	IncomeSource  string    `db:"origen_ingresos"`
}

func (r studentProfileRow) toProfile() user.StudentProfile {
	return user.StudentProfile{
		ID:            r.ID,
		UserID:        r.UserID,
		StudyLevel:    r.StudyLevel,
		BirthDate:     r.BirthDate.Time,
		Gender:        r.Gender,
		MaritalStatus: r.MaritalStatus,
		Parish:        r.Parish,
		IncomeSource:  r.IncomeSource,
	}
}

type teacherProfileRow struct {
	ID             int       `db:"id"`
	UserID         int       `db:"user_id"`
	Specialization string    `db:"especializacion"`
	HireDate       null.Time `db:"hire_date"`
}

func (r teacherProfileRow) toProfile() user.TeacherProfile {
	return user.TeacherProfile{
		ID:             r.ID,
		UserID:         r.UserID,
		Specialization: r.Specialization,
		HireDate:       r.HireDate.Time,
	}
}

type resetTokenRow struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Token     uuid.UUID `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

func (r resetTokenRow) toToken() user.PasswordResetToken {
	return user.PasswordResetToken(r)
}

const userCols = `id, nombre_completo, correo, cedula, telefono, rol, is_active, password_hash, created_at, updated_at`

func (repo userRepository) CheckUniqueness(ctx context.Context, email, cedula string, excludedUsers ...user.User) error {
	excluded := make([]int, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded = append(excluded, u.ID)
	}
	// pq.Array keeps the query valid when excluded is empty
	var emailTaken, cedulaTaken bool
	err := repo.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM app_user WHERE lower(correo) = lower($1) AND id <> ALL($3)),
		       EXISTS (SELECT 1 FROM app_user WHERE cedula <> '' AND cedula = $2 AND id <> ALL($3))`,
		email, cedula, intArray(excluded),
	).Scan(&emailTaken, &cedulaTaken)
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if emailTaken {
		return user.ErrEmailExists
	}
	if cedulaTaken && cedula != "" {
		return user.ErrCedulaExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, student *user.StudentProfile, teacher *user.TeacherProfile) (user.User, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO app_user (nombre_completo, correo, cedula, telefono, rol, is_active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		usr.FullName, usr.Email, usr.Cedula, usr.Phone, usr.Role, usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}

	if student != nil {
		student.UserID = usr.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO student_profile (user_id, nivel_estudio, fecha_nacimiento, genero, estado_civil, parroquia, origen_ingresos)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			student.UserID, student.StudyLevel, null.NewTime(student.BirthDate, !student.BirthDate.IsZero()),
			student.Gender, student.MaritalStatus, student.Parish, student.IncomeSource,
		).Scan(&student.ID)
		if err != nil {
			return user.User{}, errors.Wrap(err, "inserting student profile")
		}
	}
	if teacher != nil {
		teacher.UserID = usr.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO teacher_profile (user_id, especializacion, hire_date)
			VALUES ($1, $2, $3)
			RETURNING id`,
			teacher.UserID, teacher.Specialization, null.NewTime(teacher.HireDate, !teacher.HireDate.IsZero()),
		).Scan(&teacher.ID)
		if err != nil {
			return user.User{}, errors.Wrap(err, "inserting teacher profile")
		}
	}

	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing tx")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userCols+` FROM app_user WHERE lower(correo) = lower($1)`, email)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, "getting user by email")
	}
	return row.toUser(), nil
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return dollar(len(args))
	}

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		p := arg(val)
		q += ` AND (nombre_completo ILIKE ` + p + ` OR correo ILIKE ` + p + ` OR cedula ILIKE ` + p + `)`
	}
	if filter.Role != "" {
		q += ` AND rol = ` + arg(filter.Role)
	}
	if filter.IsActive != nil {
		q += ` AND is_active = ` + arg(*filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q += ` AND created_at >= ` + arg(filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		q += ` AND created_at <= ` + arg(filter.CreatedTo.UTC())
	}
	q += ` ORDER BY created_at DESC`

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, len(rows))
	for i, row := range rows {
		users[i] = row.toUser()
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	active := null.BoolFromPtr(isActive)
	var row userRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE app_user
		SET nombre_completo = $2,
		    correo          = $3,
		    cedula          = $4,
		    telefono        = $5,
		    rol             = $6,
		    is_active       = COALESCE($7, is_active),
		    password_hash   = COALESCE($8, password_hash),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+userCols,
		usr.ID, usr.FullName, usr.Email, usr.Cedula, usr.Phone, usr.Role, active, usr.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, trapNoRowsErr(err, "updating user")
	}
	return row.toUser(), nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM app_user WHERE id = ANY($1)`, intArray(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func (repo userRepository) GetStudentProfile(ctx context.Context, userID int) (user.StudentProfile, error) {
	var row studentProfileRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, user_id, nivel_estudio, fecha_nacimiento, genero, estado_civil, parroquia, origen_ingresos
		FROM student_profile WHERE user_id = $1`, userID)
	if err != nil {
		return user.StudentProfile{}, trapNoRowsErr(err, "getting student profile")
	}
	return row.toProfile(), nil
}

func (repo userRepository) GetTeacherProfile(ctx context.Context, userID int) (user.TeacherProfile, error) {
	var row teacherProfileRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, user_id, especializacion, hire_date
		FROM teacher_profile WHERE user_id = $1`, userID)
	if err != nil {
		return user.TeacherProfile{}, trapNoRowsErr(err, "getting teacher profile")
	}
	return row.toProfile(), nil
}

func (repo userRepository) UpdateStudentProfile(ctx context.Context, profile user.StudentProfile) (user.StudentProfile, error) {
	var row studentProfileRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE student_profile
		SET nivel_estudio = $2, genero = $3, estado_civil = $4, parroquia = $5, origen_ingresos = $6
		WHERE id = $1
		RETURNING id, user_id, nivel_estudio, fecha_nacimiento, genero, estado_civil, parroquia, origen_ingresos`,
		profile.ID, profile.StudyLevel, profile.Gender, profile.MaritalStatus, profile.Parish, profile.IncomeSource)
	if err != nil {
		return user.StudentProfile{}, trapNoRowsErr(err, "updating student profile")
	}
	return row.toProfile(), nil
}

func (repo userRepository) UpdateTeacherProfile(ctx context.Context, profile user.TeacherProfile) (user.TeacherProfile, error) {
	var row teacherProfileRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE teacher_profile
		SET especializacion = $2
		WHERE id = $1
		RETURNING id, user_id, especializacion, hire_date`,
		profile.ID, profile.Specialization)
	if err != nil {
		return user.TeacherProfile{}, trapNoRowsErr(err, "updating teacher profile")
	}
	return row.toProfile(), nil
}

func (repo userRepository) CreateResetToken(ctx context.Context, token user.PasswordResetToken) (user.PasswordResetToken, error) {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO password_reset_token (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		token.UserID, token.Token, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return user.PasswordResetToken{}, errors.Wrap(err, "inserting reset token")
	}
	return token, nil
}

func (repo userRepository) GetResetToken(ctx context.Context, token uuid.UUID) (user.PasswordResetToken, error) {
	var row resetTokenRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, user_id, token, created_at, expires_at, is_used
		FROM password_reset_token WHERE token = $1`, token)
	if err != nil {
		return user.PasswordResetToken{}, trapNoRowsErr(err, "getting reset token")
	}
	return row.toToken(), nil
}

func (repo userRepository) InvalidateResetTokens(ctx context.Context, userID int) error {
	if _, err := repo.db.ExecContext(ctx, `
		UPDATE password_reset_token SET is_used = TRUE WHERE user_id = $1 AND NOT is_used`, userID); err != nil {
		return errors.Wrap(err, "invalidating reset tokens")
	}
	return nil
}

func (repo userRepository) MarkResetTokenUsed(ctx context.Context, tokenID int) error {
	if _, err := repo.db.ExecContext(ctx, `
		UPDATE password_reset_token SET is_used = TRUE WHERE id = $1`, tokenID); err != nil {
		return errors.Wrap(err, "marking reset token used")
	}
	return nil
}
