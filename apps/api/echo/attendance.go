package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type attendanceApi struct {
	svc    attendance.Service
	usrSvc user.Service
	access *access.Filter
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.Service, usrSvc user.Service, accessFilter *access.Filter) {
	api := attendanceApi{svc: svc, usrSvc: usrSvc, access: accessFilter}

	ag := g.Group("/attendance", jwt)

	// teacher endpoints
	ag.POST("/sessions", api.createSession)
	ag.GET("/sessions", api.listSessions)
	ag.POST("/sessions/:id/mark", api.markBatch)
	ag.GET("/groups/:id/stats", api.groupStats)
	ag.GET("/stats", api.teacherStats)

	// student endpoints
	ag.GET("/history", api.studentHistory)
	ag.GET("/summary", api.studentSummary)
}

type (
	MarkBatchRequest struct {
		Records []attendance.MarkItem `json:"records"`
	}

	MarkBatchResponse struct {
		Results []attendance.MarkResult   `json:"results"`
		Records []attendance.RecordDetail `json:"records"`
	}
)

func (api *attendanceApi) createSession(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}

	var data attendance.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}

	sess, err := api.svc.CreateSession(ctx.Request().Context(), ident.User, data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, attendance.ShapeSession(sess))
}

func (api *attendanceApi) listSessions(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	teacher, err := api.access.RequireTeacher(ident)
	if err != nil {
		return err
	}
	groupID, _ := strconv.Atoi(ctx.QueryParam("course_group"))

	sessions, err := api.svc.TeacherSessions(ctx.Request().Context(), teacher, groupID)
	if err != nil {
		return errors.Wrap(err, "listing sessions")
	}
	return ctx.JSON(http.StatusOK, attendance.ShapeSessions(sessions))
}

func (api *attendanceApi) markBatch(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}
	sessionID, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data MarkBatchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkBatchRequest")
	}
	if len(data.Records) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "records", Error: "at least one record is required"})
	}

	results, records, err := api.svc.MarkBatch(ctx.Request().Context(), ident.User, sessionID, data.Records)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, MarkBatchResponse{
		Results: results,
		Records: attendance.ShapeRecords(records),
	})
}

func (api *attendanceApi) groupStats(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if _, err := api.access.RequireTeacher(ident); err != nil {
		return err
	}
	groupID, err := pathID(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.GroupStats(ctx.Request().Context(), ident.User, groupID)
	if err != nil {
		return errors.Wrap(err, "loading group stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) teacherStats(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	teacher, err := api.access.RequireTeacher(ident)
	if err != nil {
		return err
	}

	stats, err := api.svc.TeacherStats(ctx.Request().Context(), teacher)
	if err != nil {
		return errors.Wrap(err, "loading teacher stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	filter, err := bindHistoryFilter(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.StudentHistory(ctx.Request().Context(), student, filter)
	if err != nil {
		return errors.Wrap(err, "listing attendance history")
	}
	return ctx.JSON(http.StatusOK, attendance.ShapeRecords(records))
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	student, err := api.access.RequireStudent(ident)
	if err != nil {
		return err
	}

	overview, err := api.svc.StudentOverview(ctx.Request().Context(), student, time.Now())
	if err != nil {
		return errors.Wrap(err, "loading attendance summary")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func bindHistoryFilter(ctx echo.Context) (attendance.HistoryFilter, error) {
	var filter attendance.HistoryFilter
	filter.GroupID, _ = strconv.Atoi(ctx.QueryParam("course_group"))

	const layout = "2006-01-02"
	if raw := ctx.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(layout, raw)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "date_from", Error: "invalid date, expected YYYY-MM-DD"})
		}
		filter.DateFrom = t
	}
	if raw := ctx.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(layout, raw)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "date_to", Error: "invalid date, expected YYYY-MM-DD"})
		}
		filter.DateTo = t
	}
	return filter, nil
}
