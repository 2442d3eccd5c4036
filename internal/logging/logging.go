// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logger and returns it. level is a logrus level
// name; an unknown name falls back to info. format is "json" or "text".
func Init(level, format string) *logrus.Logger {
	return Configure(logrus.StandardLogger(), level, format, os.Stdout)
}

// Configure applies level, format and output to log.
func Configure(log *logrus.Logger, level, format string, out io.Writer) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}
	log.SetOutput(out)
	if err != nil && level != "" {
		log.WithField("level", level).Warn("unknown log level, using info")
	}
	return log
}
