// Package log is the dashboard's logger, a package-level zap logger with
// printf-style helpers.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// Init replaces the package logger. Debug selects zap's development config.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		l, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	base = l
	sugar = l.Sugar()
	return nil
}

// SetLogger installs l, for instance zap.NewNop() in tests.
func SetLogger(l *zap.Logger) {
	base = l
	sugar = l.Sugar()
}

// Logger returns the underlying zap logger.
func Logger() *zap.Logger {
	get()
	return base
}

func get() *zap.SugaredLogger {
	if sugar == nil {
		// Fallback logger if not initialized
		l, err := zap.NewProduction(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		base, sugar = l, l.Sugar()
	}
	return sugar
}

// With returns a logger carrying the given key/value pairs.
func With(args ...any) *zap.SugaredLogger {
	return get().With(args...)
}

func Debugf(format string, args ...any) {
	get().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	get().Infof(format, args...)
}

func Errorf(format string, args ...any) {
	get().Errorf(format, args...)
}

// Printf logs at info level.
func Printf(format string, args ...any) {
	get().Infof(format, args...)
}

// Println logs at info level.
func Println(args ...any) {
	get().Info(args...)
}

// Fatalf logs at error level, flushes and exits.
func Fatalf(format string, args ...any) {
	get().Errorf(format, args...)
	Sync()
	os.Exit(1)
}

// Sync flushes any buffered log entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
