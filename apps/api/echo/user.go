package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type authApi struct {
	svc user.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service) {
	api := authApi{svc: svc}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/password-reset`
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-verify", api.verifyResetToken)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	jg := ag.Group("", jwt)
	jg.POST("/register", api.register, adminMiddleware())
	jg.POST("/token-refresh", api.refreshToken)
	jg.POST("/logout", api.logout)
	jg.GET("/profile", api.retrieveProfile)
	jg.PUT("/profile", api.updateProfile)
	jg.POST("/change-password", api.changePassword)
}

type (
	LoginRequest struct {
		Email    string `json:"correo" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string          `json:"token"`
		User  ProfileResponse `json:"user"`
	}

	// ProfileResponse flattens an identity with whichever profile it owns.
	ProfileResponse struct {
		User    user.User            `json:"usuario"`
		Student *user.StudentProfile `json:"perfil_estudiante,omitempty"`
		Teacher *user.TeacherProfile `json:"perfil_docente,omitempty"`
	}

	PasswordResetRequest struct {
		Email string `json:"correo" validate:"required,email"`
	}

	TokenVerifyRequest struct {
		Token string `json:"token" validate:"required,uuid4"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func shapeIdentity(ident user.Identity) ProfileResponse {
	return ProfileResponse{User: ident.User, Student: ident.Student, Teacher: ident.Teacher}
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	ident, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, shapeIdentity(ident))
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ident, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewValidationError(errors.New("credenciales inválidas"))
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(GetUserClaims(ident.User))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: shapeIdentity(ident)})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

// logout is a client-side concern with stateless tokens; the endpoint only
// confirms so the SPA has a uniform flow.
func (api *authApi) logout(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "sesión cerrada"})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		if _, ok := errors.Cause(err).(*core.MailError); ok {
			return err
		}
		if errors.Cause(err) != user.ErrNotFound {
			// do not leak account existence to attackers
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
		}
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "Si el correo está asociado a una cuenta activa, " +
			"recibirás instrucciones para restablecer tu contraseña.",
	})
}

func (api *authApi) verifyResetToken(ctx echo.Context) error {
	var data TokenVerifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenVerifyRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	_, usr, err := api.svc.VerifyResetToken(ctx.Request().Context(), data.Token)
	if err != nil {
		return errors.Wrap(err, "verifying reset token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"valid": true, "correo": usr.Email})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "La contraseña ha sido restablecida."})
}

func (api *authApi) retrieveProfile(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	return ctx.JSON(http.StatusOK, shapeIdentity(ident))
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(ctx.Request().Context(), ident.User, api.svc); err != nil {
		return err
	}

	ident, err = api.svc.UpdateOwnProfile(ctx.Request().Context(), ident, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, shapeIdentity(ident))
}

func (api *authApi) changePassword(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(ident.User); err != nil {
		return err
	}

	if err := api.svc.ChangePassword(ctx.Request().Context(), ident.User, data); err != nil {
		return errors.Wrap(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Contraseña actualizada correctamente."})
}
