package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAccountDeactivated = echo.NewHTTPError(http.StatusForbidden, "cuenta desactivada")
	errRefreshExpired     = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
)

// machine-readable error codes carried alongside messages
const (
	codeForbidden      = "forbidden"
	codeProfileMissing = "profile_missing"
	codeNotFound       = "not_found"
	codeConflict       = "conflict"
	codeMailFailed     = "mail_delivery_failed"
	codeValidation     = "validation_error"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = echo.Map{"code": codeValidation, "errors": fldErrs}
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = echo.Map{"code": codeValidation, "errors": fldErrs}
			} else {
				message = echo.Map{"code": codeValidation, "error": origErr.Error()}
			}
		case *core.PermissionError:
			code = http.StatusForbidden
			message = echo.Map{"code": codeForbidden, "error": origErr.Error()}
		case *core.ProfileMissingError:
			// distinct from a permission failure: the role matches but the
			// profile record is absent
			code = http.StatusBadRequest
			message = echo.Map{"code": codeProfileMissing, "error": origErr.Error()}
		case *core.ConflictError:
			code = http.StatusConflict
			message = echo.Map{"code": codeConflict, "error": origErr.Error()}
		case *core.MailError:
			code = http.StatusBadGateway
			message = echo.Map{"code": codeMailFailed, "error": origErr.Error()}
		default:
			if errors.Cause(err) == core.ErrNotFound {
				code = http.StatusNotFound
				message = echo.Map{"code": codeNotFound, "error": "not found"}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				if uid, uErr := claims.UserID(); uErr == nil {
					usr.ID = uid
				}
				usr.Email = claims.Email
				usr.Role = claims.Role
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
