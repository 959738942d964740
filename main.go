package main

import (
	"log"
	"os"

	echoapi "github.com/kisanhq/kisan/apps/api/echo"
	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/i18n"
	"github.com/kisanhq/kisan/core/session"
	"github.com/kisanhq/kisan/core/user"
	consolemail "github.com/kisanhq/kisan/services/email/console"
	sendgridmail "github.com/kisanhq/kisan/services/email/sendgrid"
	logsvc "github.com/kisanhq/kisan/services/logger"
	sqlitekv "github.com/kisanhq/kisan/storage/kv/sqlite"
	sqliteusers "github.com/kisanhq/kisan/storage/users/sqlite"
)

func main() {
	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std)
	logger.Enable(core.Conf.GetString("rollbarToken") != "")

	translator, err := i18n.New()
	if err != nil {
		logger.Fatal("loading translations", err)
	}

	kvDB, err := sqlitekv.Open(core.Conf.GetString("kvDBPath"))
	if err != nil {
		logger.Fatal("opening kv store", err)
	}
	defer kvDB.Close()

	sessSvc := session.NewService(sqlitekv.NewRepository(kvDB), translator)
	if err := sessSvc.Hydrate(); err != nil {
		logger.Fatal("restoring session", err)
	}

	usrDB, err := sqliteusers.Open(core.Conf.GetString("accountsDBPath"))
	if err != nil {
		logger.Fatal("opening accounts store", err)
	}
	defer usrDB.Close()

	appName := core.Conf.GetString("appName")
	var emailSvc core.EmailService
	if key := core.Conf.GetString("sendgridApiKey"); key != "" {
		emailSvc = sendgridmail.NewService(key, appName, core.Conf.GetString("defaultFromEmail"), logger)
	} else {
		emailSvc = consolemail.NewService(appName)
	}

	srv := echoapi.NewServer(&echoapi.Options{
		Address:    core.Conf.GetString("serverAddress"),
		SessionSvc: sessSvc,
		AccountSvc: user.NewService(sqliteusers.NewRepository(usrDB), emailSvc),
		EmailSvc:   emailSvc,
	})

	logger.Info("starting " + appName + " on " + core.Conf.GetString("serverAddress"))
	srv.Start()
}
