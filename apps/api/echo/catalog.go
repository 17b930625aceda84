package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/catalog"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type catalogApi struct {
	svc    catalog.Service
	usrSvc user.Service
	access *access.Filter
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc catalog.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := catalogApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	sg := g.Group("/services", jwt)
	sg.GET("", api.listItems)
	sg.GET("/categories", api.listCategories)
	sg.POST("/requests", api.requestItem)
	sg.GET("/requests", api.listRequests)
	sg.GET("/certificates", api.listCertificates)
}

func (api *catalogApi) listItems(ctx echo.Context) error {
	categoryID, _ := strconv.Atoi(ctx.QueryParam("category"))
	items, err := api.svc.AvailableItems(ctx.Request().Context(), categoryID)
	if err != nil {
		return errors.Wrap(err, "listing services")
	}
	return ctx.JSON(http.StatusOK, catalog.ShapeItems(items))
}

func (api *catalogApi) listCategories(ctx echo.Context) error {
	categories, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing service categories")
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (api *catalogApi) requestItem(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	var data catalog.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	req, err := api.svc.RequestItem(ctx.Request().Context(), student, data)
	if err != nil {
		return errors.Wrap(err, "requesting service")
	}
	return ctx.JSON(http.StatusCreated, catalog.ShapeRequest(req))
}

func (api *catalogApi) listRequests(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	requests, err := api.svc.StudentRequests(ctx.Request().Context(), student)
	if err != nil {
		return errors.Wrap(err, "listing service requests")
	}
	return ctx.JSON(http.StatusOK, catalog.ShapeRequests(requests))
}

func (api *catalogApi) listCertificates(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	certs, err := api.svc.StudentCertificates(ctx.Request().Context(), student)
	if err != nil {
		return errors.Wrap(err, "listing certificates")
	}
	return ctx.JSON(http.StatusOK, catalog.ShapeCertificates(certs))
}
