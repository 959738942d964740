package main

import (
	"log"
	"os"

	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/user"
	sqliteusers "github.com/kisanhq/kisan/storage/users/sqlite"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	db, err := sqliteusers.Open(core.Conf.GetString("accountsDBPath"))
	errAndDie(err)
	defer db.Close()

	cli := commandLine{
		usrSvc: user.NewService(sqliteusers.NewRepository(db), nil /* no mail from the CLI */),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
