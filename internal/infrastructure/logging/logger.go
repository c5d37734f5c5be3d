package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Output formats supported by the logger
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggerConfig controls level filtering and output format
type LoggerConfig struct {
	Level   LogLevel
	Format  string
	Service string
	Output  io.Writer
}

// DefaultConfig returns the configuration used when none is provided
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:   LevelInfo,
		Format:  FormatJSON,
		Service: "crypto-market-service",
		Output:  os.Stdout,
	}
}

// StructuredLogger writes level-filtered structured log entries
type StructuredLogger struct {
	mu     sync.RWMutex
	config *LoggerConfig
	logger *log.Logger
}

// LogEntry is one structured log line
type LogEntry struct {
	Timestamp string   `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
	RequestID string   `json:"request_id,omitempty"`
	Service   string   `json:"service"`
	Fields    Fields   `json:"fields,omitempty"`
}

// NewStructuredLogger creates a logger with the given configuration
func NewStructuredLogger(config *LoggerConfig) *StructuredLogger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &StructuredLogger{
		config: config,
		logger: log.New(config.Output, "", 0),
	}
}

var levelOrder = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

func (sl *StructuredLogger) shouldLog(level LogLevel) bool {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return levelOrder[level] >= levelOrder[sl.config.Level]
}

// SetLevel changes the minimum level at runtime
func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.config.Level = level
}

func (sl *StructuredLogger) log(ctx context.Context, level LogLevel, message string, fields Fields) {
	if !sl.shouldLog(level) {
		return
	}

	entry := &LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Service:   sl.config.Service,
		RequestID: GetRequestID(ctx),
		Fields:    fields,
	}

	if startTime := GetStartTime(ctx); !startTime.IsZero() {
		if entry.Fields == nil {
			entry.Fields = make(Fields)
		}
		entry.Fields[FieldDuration] = float64(time.Since(startTime).Nanoseconds()) / 1e6
	}

	sl.logger.Println(sl.format(entry))
}

func (sl *StructuredLogger) format(entry *LogEntry) string {
	if sl.config.Format == FormatText {
		return fmt.Sprintf("%s [%s] %s %v", entry.Timestamp, entry.Level, entry.Message, entry.Fields)
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		// Degrade to a plain line rather than dropping the entry
		return fmt.Sprintf("[%s] %s", entry.Level, entry.Message)
	}
	return string(jsonData)
}

func (sl *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelDebug, message, fields)
}

func (sl *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelInfo, message, fields)
}

func (sl *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelWarn, message, fields)
}

func (sl *StructuredLogger) Error(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelError, message, fields)
}

var (
	globalLogger *StructuredLogger
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// GetGlobalLogger returns the process-wide logger, creating it on first use
func GetGlobalLogger() *StructuredLogger {
	globalOnce.Do(func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		if globalLogger == nil {
			globalLogger = NewStructuredLogger(DefaultConfig())
		}
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Configure replaces the global logger configuration
func Configure(config *LoggerConfig) {
	l := NewStructuredLogger(config)
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// SetGlobalLogLevel sets the level on the global logger
func SetGlobalLogLevel(level LogLevel) {
	GetGlobalLogger().SetLevel(level)
}

// Global convenience functions mirroring the logger methods

func Debug(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Debug(ctx, message, fields)
}

func Info(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Info(ctx, message, fields)
}

func Warn(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Warn(ctx, message, fields)
}

func Error(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Error(ctx, message, fields)
}

// ErrorWithError logs an error message with the error attached as a field
func ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	if fields == nil {
		fields = make(Fields)
	}
	if err != nil {
		fields[FieldError] = err.Error()
	}
	GetGlobalLogger().Error(ctx, message, fields)
}

// WarnWithError logs a warning with the error attached as a field
func WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	if fields == nil {
		fields = make(Fields)
	}
	if err != nil {
		fields[FieldError] = err.Error()
	}
	GetGlobalLogger().Warn(ctx, message, fields)
}
