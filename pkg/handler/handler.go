package handler

import (
	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is common logger gateway
var Logger = internal.Logger

// Handler has main logic of a command
type Handler func(Arguments) error

// Run binds environment variables, configures logger and error reporting
// and invokes handler. An error from handler is reported before returned.
func Run(args Arguments, handler Handler) error {
	defer internal.FlushError()

	if err := args.BindEnvVars(); err != nil {
		return err
	}

	if err := internal.InitErrorHandler(args.SentryDSN, args.SentryEnv); err != nil {
		return errors.Wrap(err, "Fail to initialize sentry")
	}

	SetLogLevel(args.LogLevel)
	internal.SetLogFormat(args.LogFormat)

	Logger.WithFields(logrus.Fields{
		"source": args.SourceDir,
		"dist":   args.DistDir,
		"schema": args.SchemaFile,
	}).Debug("Start handler")

	if err := handler(args); err != nil {
		err = errors.Wrap(err, "Failed Handler")
		internal.HandleError(err)
		return err
	}

	return nil
}

// SetLogLevel changes log level if level is not empty
func SetLogLevel(level string) {
	if level != "" {
		internal.SetLogLevel(level)
	}
}
