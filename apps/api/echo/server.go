package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/access"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/catalog"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/dashboard"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/news"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/notification"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/task"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		UserSvc         user.Service
		CourseSvc       course.Service
		AttendanceSvc   attendance.Service
		TaskSvc         task.Service
		NewsSvc         news.Service
		NotificationSvc notification.Service
		CatalogSvc      catalog.Service
		DashboardSvc    dashboard.Service

		Access *access.Filter
		Logger core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(api, jwt, s.opts.UserSvc)
	registerCourseAPI(api, jwt, s.opts.CourseSvc, s.opts.UserSvc, s.opts.Access)
	registerAttendanceAPI(api, jwt, s.opts.AttendanceSvc, s.opts.UserSvc, s.opts.Access)
	registerTaskAPI(api, jwt, s.opts.TaskSvc, s.opts.UserSvc, s.opts.Access)
	registerNewsAPI(api, jwt, s.opts.NewsSvc, s.opts.UserSvc, s.opts.Access)
	registerNotificationAPI(api, jwt, s.opts.NotificationSvc, s.opts.UserSvc)
	registerCatalogAPI(api, jwt, s.opts.CatalogSvc, s.opts.UserSvc, s.opts.Access)
	registerAdminAPI(api, jwt, s.opts.DashboardSvc, s.opts.UserSvc, s.opts.Access)
}

// signalShutdown requests a graceful shutdown whenever an unrecoverable
// error is caught by the error handler.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bienvenido a la API de Fine Tune English")
}
