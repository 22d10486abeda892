package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var log = New(NewJSONHandler(os.Stdout, nil))

// Init sets up the default JSON logger on stdout. LOG_LEVEL selects the level.
func Init() {
	log = New(NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}))
}

func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func Logger() *slog.Logger {
	return log
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Infof(format string, v ...any) {
	Logger().Info(fmt.Sprintf(format, v...))
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Errorf(format string, v ...any) {
	Logger().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	Logger().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string, args ...any) {
	Logger().Error(msg, args...)
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	Logger().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// WithError returns a child logger carrying err under the "error" key.
func WithError(err error) *slog.Logger {
	return Logger().With("error", err)
}

func WithFields(fields map[string]interface{}) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return Logger().With(args...)
}
