package main

import (
	"context"
	"io"
	"os"

	"github.com/Lifor121/SketchBlade-sub002/cmd/inventoryd/command"
	service "github.com/pixil98/go-service"
	"github.com/sirupsen/logrus"
)

func newLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func main() {
	logger := newLogger(os.Stderr)

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		logger.WithError(err).Fatal("creating application")
	}

	err = app.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("running application")
	}

	logger.Info("exiting")
}
