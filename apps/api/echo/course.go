package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type courseApi struct {
	svc    course.Service
	usrSvc user.Service
	access *access.Filter
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := courseApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.listEnrollments)
	cg.GET("/teaching", api.listTeacherGroups)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/grades", api.listGrades)
	cg.GET("/:id/schedules", api.listSchedules)
}

// pathID parses the `:id` path param; a malformed id reads as no match.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, course.ErrNotFound
	}
	return id, nil
}

func (api *courseApi) listEnrollments(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	enrollments, err := api.svc.StudentEnrollments(ctx.Request().Context(), student)
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}
	return ctx.JSON(http.StatusOK, course.ShapeEnrollments(enrollments))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	detail, err := api.svc.CourseDetail(ctx.Request().Context(), student, id)
	if err != nil {
		return errors.Wrap(err, "retrieving course detail")
	}
	return ctx.JSON(http.StatusOK, course.ShapeDetail(detail))
}

func (api *courseApi) listGrades(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	grades, err := api.svc.StudentGrades(ctx.Request().Context(), student, id)
	if err != nil {
		return errors.Wrap(err, "listing grades")
	}
	return ctx.JSON(http.StatusOK, course.ShapeGrades(grades))
}

func (api *courseApi) listSchedules(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	schedules, err := api.svc.EnrollmentSchedules(ctx.Request().Context(), student, id)
	if err != nil {
		return errors.Wrap(err, "listing schedules")
	}
	return ctx.JSON(http.StatusOK, course.ShapeSchedules(schedules))
}

func (api *courseApi) listTeacherGroups(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	teacher, err := api.access.RequireTeacher(ident)
	if err != nil {
		return err
	}

	groups, err := api.svc.TeacherGroups(ctx.Request().Context(), teacher)
	if err != nil {
		return errors.Wrap(err, "listing teacher groups")
	}
	return ctx.JSON(http.StatusOK, course.ShapeGroups(groups))
}
