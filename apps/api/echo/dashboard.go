package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/dashboard"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type adminApi struct {
	svc    dashboard.Service
	usrSvc user.Service
	access *access.Filter
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc dashboard.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := adminApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/dashboard", api.overview)
	ag.GET("/attendance-stats", api.attendanceStats)

	ag.GET("/users", api.listUsers)
	ag.PUT("/users/:id", api.updateUser)
	ag.DELETE("/users", api.deleteUsers)
}

func (api *adminApi) overview(ctx echo.Context) error {
	overview, err := api.svc.Overview(ctx.Request().Context(), time.Now())
	if err != nil {
		return errors.Wrap(err, "loading dashboard overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func (api *adminApi) attendanceStats(ctx echo.Context) error {
	stats, err := api.svc.GlobalAttendance(ctx.Request().Context(), time.Now())
	if err != nil {
		return errors.Wrap(err, "loading global attendance stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) listUsers(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	users, err := api.usrSvc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "filtering users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) updateUser(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.usrSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(ctx.Request().Context(), orig, api.usrSvc); err != nil {
		return err
	}

	usr, err := api.usrSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) deleteUsers(ctx echo.Context) error {
	var query struct {
		IDs []int `query:"id"`
	}
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding query ids")
	}
	if len(query.IDs) == 0 {
		return ctx.NoContent(http.StatusNoContent)
	}

	// admins cannot delete themselves
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	for _, id := range query.IDs {
		if id == ident.User.ID {
			return errors.WithStack(echo.NewHTTPError(http.StatusForbidden, "no puedes eliminar tu propia cuenta"))
		}
	}

	if err := api.usrSvc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}
