package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// newLogger builds a logrus logger writing to w. trace and panic levels are
// not exposed.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "", "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logger.SetLevel(logrus.FatalLevel)
	default:
		return nil, fmt.Errorf("cli: unknown log level %q", level)
	}
	return logger, nil
}
