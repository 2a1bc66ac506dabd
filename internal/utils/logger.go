package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a logger at the given level ("debug", "info", ...). An
// unknown level falls back to info; format "json" switches to JSON output.
func NewLogger(level, format string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if parsed, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		l.SetLevel(parsed)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{Logger: l}
}

// ForUser returns an entry tagged with the acting user.
func (l *Logger) ForUser(userID string) *logrus.Entry {
	return l.WithField("user_id", userID)
}
