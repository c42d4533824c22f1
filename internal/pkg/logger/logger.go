// Package logger provides the logging used across rsa-keygen: a small
// Logger interface backed by log/slog, writing either to the console or to
// a size-rotated file.
package logger

import "io"

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

// Close releases the resources held by l, such as an open log file.
// Loggers without any are left alone.
func Close(l Logger) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{}) {}
func (nopLogger) Info(...interface{})  {}
func (nopLogger) Warn(...interface{})  {}
func (nopLogger) Error(...interface{}) {}
