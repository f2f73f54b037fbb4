// Package log provides centralized logging for thermocline using zap.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger
var sugar *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger. Debug mode uses zap's development
// config so that detector diagnostics (segment gradients, rejected strategies)
// are printed.
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapLogger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	setLogger(zapLogger)
	return nil
}

// setLogger installs l. The package-level helpers skip their own frame so the
// caller recorded in each entry is the code that called them.
func setLogger(l *zap.Logger) {
	baseLogger = l
	sugar = l.Sugar()
	log = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func ensureLogger() {
	if baseLogger == nil {
		l, _ := zap.NewProduction()
		setLogger(l)
	}
}

// GetZapLogger returns the base zap logger for cases where it's needed (like GORM)
func GetZapLogger() *zap.Logger {
	ensureLogger()
	return baseLogger
}

// GetSugaredLogger returns the sugared logger instance
func GetSugaredLogger() *zap.SugaredLogger {
	ensureLogger()
	return sugar
}

// Sync flushes any buffered log entries
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func helper() *zap.SugaredLogger {
	ensureLogger()
	return log
}

func Debugf(template string, args ...interface{}) {
	helper().Debugf(template, args...)
}

func Info(args ...interface{}) {
	helper().Info(args...)
}

func Infof(template string, args ...interface{}) {
	helper().Infof(template, args...)
}

func Warn(args ...interface{}) {
	helper().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	helper().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	helper().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	helper().Errorw(msg, keysAndValues...)
}
