package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/Acedia413/time-management-sub000/apps/api/echo"
	"github.com/Acedia413/time-management-sub000/core"
	"github.com/Acedia413/time-management-sub000/core/planner"
	"github.com/Acedia413/time-management-sub000/core/submission"
	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
	appfs "github.com/Acedia413/time-management-sub000/fs"
	emailsvc "github.com/Acedia413/time-management-sub000/services/email"
	logsvc "github.com/Acedia413/time-management-sub000/services/logger"
	"github.com/Acedia413/time-management-sub000/storage/database"
	sqlxrepos "github.com/Acedia413/time-management-sub000/storage/database/sqlx"
	"github.com/jmoiron/sqlx"
)

func main() {
	// set up logger
	var logger core.Logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() { _ = db.Close() }()

	// email templates live on the embedded FS
	core.SetTemplatesFS(appfs.FS)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(db))
	subSvc := submission.NewService(sqlxrepos.NewSubmissionRepository(db), taskSvc)
	planSvc := planner.NewService(sqlxrepos.NewPriorityRepository(db), taskSvc)

	// start API server
	server := echoapi.NewServer(&echoapi.Options{
		Addr:          core.Conf.Server.Address(),
		Logger:        logger,
		UserSvc:       usrSvc,
		TaskSvc:       taskSvc,
		SubmissionSvc: subSvc,
		PlannerSvc:    planSvc,
	})
	server.Start()

	logger.Info(fmt.Sprintf("%s API listening on %s", core.Conf.AppName, core.Conf.Server.Address()))
	defer logger.Info("Application stopped")

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
