package utils

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the structured logging interface used across handlers and
// middleware. It mirrors slog's variadic key/value style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger in the Logger interface.
func NewSlogLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

const loggerContextKey = "logger"

// ContextLogger attaches a request-scoped logger to the gin context so
// downstream handlers can log with the request id already bound.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger.With(
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Set(loggerContextKey, requestLogger)
		c.Next()
	}
}

// GetLogger returns the request-scoped logger from the gin context,
// falling back to a no-frills slog logger when none was attached.
func GetLogger(c *gin.Context) Logger {
	if l, exists := c.Get(loggerContextKey); exists {
		if logger, ok := l.(Logger); ok {
			return logger
		}
	}
	return NewSlogLogger(slog.Default())
}

// LoggerMiddleware logs one line per completed request.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}

		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
			logger.Error("Request completed with errors", args...)
			return
		}

		logger.Info("Request completed", args...)
	}
}
