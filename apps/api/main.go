package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/JOSEPHMATHEO/Fine-Tune-English/apps/api/echo"
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
	emailsvc "github.com/JOSEPHMATHEO/Fine-Tune-English/services/email"
	logsvc "github.com/JOSEPHMATHEO/Fine-Tune-English/services/logger"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/storage/database"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/storage/database/sqlxrepos"
)

func main() {
	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer db.Close()

	if core.Conf.Debug {
		if err = database.Migrate(db.DB); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), courseSvc)
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(db), courseSvc)
	newsSvc := news.NewService(sqlxrepos.NewNewsRepository(db), logger)
	notificationSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), logger)
	catalogSvc := catalog.NewService(sqlxrepos.NewCatalogRepository(db))
	dashboardSvc := dashboard.NewService(sqlxrepos.NewDashboardRepository(db))

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:         core.Conf.Server.Address(),
			UserSvc:         usrSvc,
			CourseSvc:       courseSvc,
			AttendanceSvc:   attendanceSvc,
			TaskSvc:         taskSvc,
			NewsSvc:         newsSvc,
			NotificationSvc: notificationSvc,
			CatalogSvc:      catalogSvc,
			DashboardSvc:    dashboardSvc,
			Access:          access.NewFilter(logger),
			Logger:          logger,
		},
	)

	go server.Start()
	logger.Info(fmt.Sprintf("%s API listening on %s", core.Conf.AppName, core.Conf.Server.Address()))

	// shutdown
	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
