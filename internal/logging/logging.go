// Package logging builds the shared logrus logger from configuration.
package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/config"
)

// New returns a logger honoring LOG_LEVEL and LOG_FORMAT.
func New(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
