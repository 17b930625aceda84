package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/task"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type taskApi struct {
	svc    task.Service
	usrSvc user.Service
	access *access.Filter
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := taskApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	tg := g.Group("/tasks", jwt)

	// student endpoints
	tg.GET("", api.listStudentTasks)
	tg.GET("/:id", api.retrieveStudentTask)
	tg.POST("/:id/submit", api.submit)

	// teacher endpoints
	tg.POST("", api.create)
	tg.GET("/teaching", api.listTeacherTasks)
	tg.GET("/:id/submissions", api.listSubmissions)
	tg.PUT("/submissions/:id/grade", api.grade)
}

type TaskSubmissionsResponse struct {
	Task        task.Task               `json:"task"`
	Submissions []task.SubmissionDetail `json:"submissions"`
}

func (api *taskApi) listStudentTasks(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	tasks, err := api.svc.StudentTasks(ctx.Request().Context(), student)
	if err != nil {
		return errors.Wrap(err, "listing student tasks")
	}
	return ctx.JSON(http.StatusOK, task.ShapeStudentTasks(tasks, time.Now()))
}

func (api *taskApi) retrieveStudentTask(ctx echo.Context) error {
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

	st, err := api.svc.StudentTaskDetail(ctx.Request().Context(), student, id)
	if err != nil {
		return errors.Wrap(err, "retrieving task")
	}
	return ctx.JSON(http.StatusOK, task.ShapeStudentTask(st, time.Now()))
}

func (api *taskApi) submit(ctx echo.Context) error {
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

	var data task.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), student, id, data)
	if err != nil {
		return errors.Wrap(err, "submitting task")
	}
	return ctx.JSON(http.StatusCreated, task.ShapeSubmission(sub))
}

func (api *taskApi) create(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}

	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	created, err := api.svc.Create(ctx.Request().Context(), ident.User, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *taskApi) listTeacherTasks(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	teacher, err := api.access.RequireTeacher(ident)
	if err != nil {
		return err
	}

	tasks, err := api.svc.TeacherTasks(ctx.Request().Context(), teacher)
	if err != nil {
		return errors.Wrap(err, "listing teacher tasks")
	}
	return ctx.JSON(http.StatusOK, task.ShapeTeacherTasks(tasks))
}

func (api *taskApi) listSubmissions(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	t, subs, err := api.svc.TaskSubmissions(ctx.Request().Context(), ident.User, id)
	if err != nil {
		return errors.Wrap(err, "listing submissions")
	}
	return ctx.JSON(http.StatusOK, TaskSubmissionsResponse{
		Task:        t,
		Submissions: task.ShapeSubmissions(subs),
	})
}

func (api *taskApi) grade(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data task.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}

	if err := api.svc.Grade(ctx.Request().Context(), ident.User, id, data); err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Calificación registrada."})
}
