package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/notification"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type notificationApi struct {
	svc    notification.Service
	usrSvc user.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc notification.Service, usrSvc user.Service) {
	api := notificationApi{svc: svc, usrSvc: usrSvc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.list)
	ng.GET("/unread-count", api.unreadCount)
	ng.POST("/:id/read", api.markRead)
	ng.POST("/read-all", api.markAllRead)
}

func (api *notificationApi) list(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	// listing marks everything read unless the client opts out
	markRead := ctx.QueryParam("mark_read") != "false"

	items, err := api.svc.List(ctx.Request().Context(), ident.User, markRead)
	if err != nil {
		return errors.Wrap(err, "listing notifications")
	}
	return ctx.JSON(http.StatusOK, notification.ShapeAll(items))
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	count, err := api.svc.UnreadCount(ctx.Request().Context(), ident.User)
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.MarkRead(ctx.Request().Context(), ident.User, id); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Notificación marcada como leída."})
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	count, err := api.svc.MarkAllRead(ctx.Request().Context(), ident.User)
	if err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"marked_read": count})
}
