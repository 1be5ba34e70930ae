// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for a pipeline run's correlation ID.
	RequestIDKey ContextKey = "request_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRequestID adds a correlation ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the correlation ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// ArchiveFetch logs a successful network fetch of the vocabulary archive
// or reference-translation USFM.
func ArchiveFetch(url string, bytes int, args ...any) {
	allArgs := []any{
		"url", url,
		"bytes", bytes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("archive_fetch", allArgs...)
}

// ArchiveCacheHit logs a cache hit that avoided a network fetch.
func ArchiveCacheHit(key string, args ...any) {
	allArgs := []any{"key", key}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("archive_cache_hit", allArgs...)
}

// BookTokenized logs that a book's USFM was tokenized into verse content.
func BookTokenized(book string, tokenCount, verseCount int, args ...any) {
	allArgs := []any{
		"book", book,
		"tokens", tokenCount,
		"verses", verseCount,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("book_tokenized", allArgs...)
}

// RowEmitted logs one output row produced by a pipeline driver.
func RowEmitted(reference, article string, args ...any) {
	allArgs := []any{
		"reference", reference,
		"article", article,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("row_emitted", allArgs...)
}

// ServiceFallback logs a companion-service call that failed and was
// recovered by falling back to the English surface form instead of
// failing the run.
func ServiceFallback(service string, err error, args ...any) {
	allArgs := []any{
		"service", service,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("service_fallback", allArgs...)
}

// MatchSelected logs the outcome of the article selector for one
// occurrence: which article it picked, at which selection stage, and
// whether a disambiguating variant tag was required.
func MatchSelected(article string, stage int, variant bool, args ...any) {
	allArgs := []any{
		"article", article,
		"stage", stage,
		"variant", variant,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("match_selected", allArgs...)
}
