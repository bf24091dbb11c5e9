package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from the log configuration. An
// unknown level falls back to info.
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if err != nil && cfg.Level != "" {
		logger.WithField("log_level", cfg.Level).Warn("Unknown log level, using info")
	}

	return logger
}
