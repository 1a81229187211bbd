package internal

import (
	"github.com/sirupsen/logrus"
)

// Logger can be modified by external for testing
var Logger = logrus.New()

// SetLogLevel changes level of Logger. Unknown level string is ignored.
func SetLogLevel(level string) {
	switch level {
	case "TRACE", "trace":
		Logger.SetLevel(logrus.TraceLevel)
	case "DEBUG", "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "INFO", "info":
		Logger.SetLevel(logrus.InfoLevel)
	case "WARN", "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "ERROR", "error":
		Logger.SetLevel(logrus.ErrorLevel)
	}
}

// SetLogFormat switches Logger output between "json" and plain text.
func SetLogFormat(format string) {
	switch format {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
