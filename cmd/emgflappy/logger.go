package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger. The flag wins over LOG_LEVEL;
// LOG_FORMAT=json switches to JSON output.
func newLogger(levelFlag string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	name := levelFlag
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	if name == "" {
		name = "info"
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logger.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
