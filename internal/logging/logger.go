package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

var logLevelMapping = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

var logger = newDiscardLogger()

func newDiscardLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&log.JSONFormatter{})
	return l
}

// DefaultLogPath is tilaunch.log next to the user config.
func DefaultLogPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tilaunch", "tilaunch.log"), nil
}

// Setup sends diagnostics to logFilePath as JSON lines. Unknown levels fall back to info.
// The returned close function flushes and closes the file.
func Setup(logFilePath, level string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory - %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not set log output - %w", err)
	}
	l := log.New()
	l.SetFormatter(&log.JSONFormatter{})
	lvl, ok := logLevelMapping[level]
	if !ok {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetOutput(logFile)
	logger = l
	return logFile.Close, nil
}

// SetOutput redirects the logger; used by tests.
func SetOutput(w io.Writer, level string) {
	l := log.New()
	l.SetFormatter(&log.JSONFormatter{})
	lvl, ok := logLevelMapping[level]
	if !ok {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetOutput(w)
	logger = l
}

func LogDebug(event string, message string) {
	logger.WithFields(log.Fields{
		"event": event,
	}).Debug(message)
}

func LogInfo(event string, message string) {
	logger.WithFields(log.Fields{
		"event": event,
	}).Info(message)
}

func LogWarn(event string, message string) {
	logger.WithFields(log.Fields{
		"event": event,
	}).Warn(message)
}

func LogError(event string, message string) {
	logger.WithFields(log.Fields{
		"event": event,
	}).Error(message)
}
