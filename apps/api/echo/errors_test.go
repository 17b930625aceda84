package echoapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

func newTestApp(signalShutdown func()) *echo.Echo {
	if signalShutdown == nil {
		signalShutdown = func() {}
	}
	app := echo.New()
	logger := core.NewStdLogger(log.New(io.Discard, "", 0))
	app.HTTPErrorHandler = newAppHTTPErrorHandler(logger, signalShutdown)
	return app
}

func failingHandler(err error) echo.HandlerFunc {
	return func(ctx echo.Context) error { return err }
}

func doGet(app *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAppHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody map[string]interface{}
	}{
		{
			name:     "not found",
			err:      core.ErrNotFound,
			wantCode: http.StatusNotFound,
			wantBody: map[string]interface{}{"code": codeNotFound, "error": "not found"},
		},
		{
			name:     "wrapped not found",
			err:      errors.Wrap(core.ErrNotFound, "getting course"),
			wantCode: http.StatusNotFound,
			wantBody: map[string]interface{}{"code": codeNotFound, "error": "not found"},
		},
		{
			name:     "permission",
			err:      core.NewPermissionError("you do not manage this course group"),
			wantCode: http.StatusForbidden,
			wantBody: map[string]interface{}{"code": codeForbidden, "error": "you do not manage this course group"},
		},
		{
			name:     "profile missing",
			err:      core.NewProfileMissingError("student"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "conflict",
			err:      core.NewConflictError("correo ya registrado"),
			wantCode: http.StatusConflict,
			wantBody: map[string]interface{}{"code": codeConflict, "error": "correo ya registrado"},
		},
		{
			name:     "mail failure",
			err:      &core.MailError{},
			wantCode: http.StatusBadGateway,
			wantBody: map[string]interface{}{"code": codeMailFailed, "error": "email delivery failed"},
		},
		{
			name:     "validation with fields",
			err:      core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"}),
			wantCode: http.StatusBadRequest,
			wantBody: map[string]interface{}{
				"code":   codeValidation,
				"errors": map[string]interface{}{"date": "invalid date, expected YYYY-MM-DD"},
			},
		},
		{
			name:     "validation with message",
			err:      core.NewValidationError(errors.New("credenciales inválidas")),
			wantCode: http.StatusBadRequest,
			wantBody: map[string]interface{}{"code": codeValidation, "error": "credenciales inválidas"},
		},
		{
			name:     "echo error passthrough",
			err:      echo.NewHTTPError(http.StatusTeapot, "short and stout"),
			wantCode: http.StatusTeapot,
			wantBody: map[string]interface{}{"error": "short and stout"},
		},
		{
			name:     "unexpected error",
			err:      errors.New("kaboom"),
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]interface{}{"error": http.StatusText(http.StatusInternalServerError)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(nil)
			app.GET("/boom", failingHandler(tt.err))

			rec := doGet(app, "/boom")
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, decodeBody(t, rec))
			}
		})
	}
}

func TestAppHTTPErrorHandlerSignalsShutdown(t *testing.T) {
	signaled := false
	app := newTestApp(func() { signaled = true })
	app.GET("/boom", failingHandler(core.NewShutdownError("database is gone")))

	rec := doGet(app, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, signaled, "shutdown signal not raised")
}
