package echoapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

// fakeUserService answers authentication calls from fixed data.
type fakeUserService struct {
	user.Service // unimplemented methods panic

	ident   user.Identity
	authErr error
}

func (svc *fakeUserService) Authenticate(_ context.Context, email, pwd string) (user.Identity, error) {
	if svc.authErr != nil {
		return user.Identity{}, svc.authErr
	}
	return svc.ident, nil
}

func (svc *fakeUserService) ResolveIdentity(_ context.Context, userID int) (user.Identity, error) {
	return svc.ident, nil
}

func newAuthApp(svc user.Service) *echo.Echo {
	app := newTestApp(nil)
	jwt := middleware.JWTWithConfig(appJWTConfig)
	registerAuthAPI(app.Group("/api"), jwt, svc)
	return app
}

func doPost(app *echo.Echo, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func studentIdentity() user.Identity {
	return user.Identity{
		User: user.User{
			ID:       3,
			FullName: "Ana Torres",
			Email:    "ana@test.ec",
			Role:     user.RoleStudent,
			IsActive: true,
		},
		Student: &user.StudentProfile{ID: 8, UserID: 3},
	}
}

func TestLogin(t *testing.T) {
	svc := &fakeUserService{ident: studentIdentity()}
	app := newAuthApp(svc)

	t.Run("ok", func(t *testing.T) {
		rec := doPost(app, "/api/auth/login", []byte(`{"correo": "Ana@Test.EC", "password": "s3cret!"}`), "")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["token"])
		usr, _ := body["user"].(map[string]interface{})
		assert.NotNil(t, usr["usuario"])
		assert.NotNil(t, usr["perfil_estudiante"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc.authErr = user.ErrNotFound
		defer func() { svc.authErr = nil }()

		rec := doPost(app, "/api/auth/login", []byte(`{"correo": "ana@test.ec", "password": "wrong"}`), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, codeValidation, body["code"])
		assert.Equal(t, "credenciales inválidas", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doPost(app, "/api/auth/login", []byte(`{"correo": "not-an-email"}`), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, codeValidation, body["code"])
		assert.NotEmpty(t, body["errors"])
	})
}

func TestLogout(t *testing.T) {
	svc := &fakeUserService{ident: studentIdentity()}
	app := newAuthApp(svc)

	t.Run("no token", func(t *testing.T) {
		rec := doPost(app, "/api/auth/logout", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		token, err := GenerateToken(GetUserClaims(svc.ident.User))
		if err != nil {
			t.Fatalf("GenerateToken() failed: %v", err)
		}

		rec := doPost(app, "/api/auth/logout", nil, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sesión cerrada", decodeBody(t, rec)["success"])
	})
}
