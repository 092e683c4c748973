package logic

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/tmps/internal/config"
)

// newLogger returns a stderr logger whose level follows the quiet and verbose settings.
func newLogger(c config.Common) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case c.Quiet:
		log.SetLevel(logrus.WarnLevel)
	case c.Verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
