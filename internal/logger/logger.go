// Package logger builds the logrus logger shared by every component.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing text lines to out.
// The level is any name logrus.ParseLevel accepts; verbose forces debug.
// An empty or unknown level shows only warnings and errors.
func New(out io.Writer, level string, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
