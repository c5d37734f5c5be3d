package logging

// Fields carries structured key/value pairs attached to a log entry
type Fields map[string]interface{}

// LogLevel represents the available log levels
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLevel maps a config string to a LogLevel, defaulting to info
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Standard field names shared across the service
const (
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldStatusCode = "status_code"
	FieldCacheKey   = "cache_key"
	FieldCoinID     = "coin_id"
)
