package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/news"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type newsApi struct {
	svc    news.Service
	usrSvc user.Service
	access *access.Filter
}

func registerNewsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc news.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := newsApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	ng := g.Group("/news", jwt)
	ng.GET("", api.list)
	ng.GET("/categories", api.listCategories)
	ng.GET("/:id", api.retrieve)
	ng.POST("", api.create, adminMiddleware())
}

func (api *newsApi) list(ctx echo.Context) error {
	items, err := api.svc.List(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return errors.Wrap(err, "listing news")
	}
	return ctx.JSON(http.StatusOK, news.ShapeSummaries(items))
}

func (api *newsApi) listCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Categories())
}

func (api *newsApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	article, err := api.svc.Detail(ctx.Request().Context(), ident.User, id)
	if err != nil {
		return errors.Wrap(err, "retrieving news article")
	}
	return ctx.JSON(http.StatusOK, news.ShapeDetail(article))
}

func (api *newsApi) create(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if err := api.access.RequireAdmin(ident); err != nil {
		return err
	}

	var data news.NewNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNews")
	}

	article, err := api.svc.Create(ctx.Request().Context(), ident.User, data)
	if err != nil {
		return errors.Wrap(err, "creating news article")
	}
	return ctx.JSON(http.StatusCreated, news.ShapeDetail(article))
}
