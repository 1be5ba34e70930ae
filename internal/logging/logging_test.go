package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger

	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{name: "Debug level JSON format", level: LevelDebug, format: FormatJSON},
		{name: "Info level JSON format", level: LevelInfo, format: FormatJSON},
		{name: "Warn level JSON format", level: LevelWarn, format: FormatJSON},
		{name: "Error level JSON format", level: LevelError, format: FormatJSON},
		{name: "Info level Text format", level: LevelInfo, format: FormatText},
		{name: "Debug level Text format", level: LevelDebug, format: FormatText},
		{name: "Default level (invalid value)", level: Level(999), format: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			logger := GetLogger()
			if logger == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelInfo, FormatJSON)
}

func TestGetLogger(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)
	logger := GetLogger()
	if logger == nil {
		t.Error("Expected logger to be non-nil")
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id-123"

	newCtx := WithRequestID(ctx, requestID)

	retrievedID := GetRequestID(newCtx)
	if retrievedID != requestID {
		t.Errorf("Expected request ID %s, got %s", requestID, retrievedID)
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "Context with request ID",
			ctx:      context.WithValue(context.Background(), RequestIDKey, "test-id"),
			expected: "test-id",
		},
		{
			name:     "Context without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "Context with wrong type value",
			ctx:      context.WithValue(context.Background(), RequestIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetRequestID(tt.ctx)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	tests := []struct {
		name     string
		ctx      context.Context
		hasReqID bool
	}{
		{
			name:     "Context with request ID",
			ctx:      WithRequestID(context.Background(), "test-123"),
			hasReqID: true,
		},
		{
			name:     "Context without request ID",
			ctx:      context.Background(),
			hasReqID: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := LoggerFromContext(tt.ctx)
			if logger == nil {
				t.Error("Expected logger to be non-nil")
			}
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "Debug", fn: func() { Debug("debug message", "key", "value") }},
		{name: "Info", fn: func() { Info("info message", "key", "value") }},
		{name: "Warn", fn: func() { Warn("warning message", "key", "value") }},
		{name: "Error", fn: func() { Error("error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if output == "" {
				t.Error("Expected log output, got empty string")
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)
	ctx := WithRequestID(context.Background(), "test-request-id")

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "DebugContext", fn: func() { DebugContext(ctx, "debug message", "key", "value") }},
		{name: "InfoContext", fn: func() { InfoContext(ctx, "info message", "key", "value") }},
		{name: "WarnContext", fn: func() { WarnContext(ctx, "warning message", "key", "value") }},
		{name: "ErrorContext", fn: func() { ErrorContext(ctx, "error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if output == "" {
				t.Error("Expected log output, got empty string")
			}
			if !strings.Contains(output, "test-request-id") {
				t.Error("Expected output to contain request ID")
			}
		})
	}
}

func TestArchiveFetch(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		ArchiveFetch("https://example.org/vocab.tar.xz", 4096)
	})

	if !strings.Contains(output, "archive_fetch") {
		t.Error("Expected output to contain archive_fetch")
	}
	if !strings.Contains(output, "vocab.tar.xz") {
		t.Error("Expected output to contain the fetched URL")
	}
	if !strings.Contains(output, "4096") {
		t.Error("Expected output to contain byte count")
	}
}

func TestArchiveCacheHit(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	output := captureLogOutput(func() {
		ArchiveCacheHit("usfm:https://example.org/tit.usfm")
	})

	if !strings.Contains(output, "archive_cache_hit") {
		t.Error("Expected output to contain archive_cache_hit")
	}
}

func TestBookTokenized(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		BookTokenized("TIT", 842, 46)
	})

	if !strings.Contains(output, "book_tokenized") {
		t.Error("Expected output to contain book_tokenized")
	}
	if !strings.Contains(output, "TIT") {
		t.Error("Expected output to contain the book code")
	}
}

func TestRowEmitted(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	output := captureLogOutput(func() {
		RowEmitted("TIT 1:1", "grace")
	})

	if !strings.Contains(output, "row_emitted") {
		t.Error("Expected output to contain row_emitted")
	}
	if !strings.Contains(output, "grace") {
		t.Error("Expected output to contain the article name")
	}
}

func TestServiceFallback(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)
	testErr := errors.New("connection refused")

	output := captureLogOutput(func() {
		ServiceFallback("gl-ol-converter", testErr)
	})

	if !strings.Contains(output, "service_fallback") {
		t.Error("Expected output to contain service_fallback")
	}
	if !strings.Contains(output, "gl-ol-converter") {
		t.Error("Expected output to contain the service name")
	}
	if !strings.Contains(output, "connection refused") {
		t.Error("Expected output to contain the error message")
	}
}

func TestMatchSelected(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	output := captureLogOutput(func() {
		MatchSelected("grace", 2, true)
	})

	if !strings.Contains(output, "match_selected") {
		t.Error("Expected output to contain match_selected")
	}
	if !strings.Contains(output, "\"stage\":2") {
		t.Error("Expected output to contain the selection stage")
	}
}

func TestInit(t *testing.T) {
	if defaultLogger == nil {
		t.Error("Expected defaultLogger to be initialized by init()")
	}
}

func TestContextKeyType(t *testing.T) {
	var key ContextKey = "test"
	if string(key) != "test" {
		t.Errorf("Expected key to be 'test', got '%s'", string(key))
	}

	if RequestIDKey != "request_id" {
		t.Errorf("Expected RequestIDKey to be 'request_id', got '%s'", RequestIDKey)
	}
}

func TestLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("Expected LevelDebug < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("Expected LevelInfo < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("Expected LevelWarn < LevelError")
	}
}

func TestFormatConstants(t *testing.T) {
	if FormatJSON == FormatText {
		t.Error("Expected FormatJSON != FormatText")
	}
}
