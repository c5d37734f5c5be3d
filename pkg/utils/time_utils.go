package utils

import (
	"time"
)

// IsStaleAt reports whether a value created at createdAt has outlived ttl
// as of the given instant
func IsStaleAt(createdAt time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(createdAt) > ttl
}

// IsStale reports whether a value created at createdAt has outlived ttl
func IsStale(createdAt time.Time, ttl time.Duration) bool {
	return IsStaleAt(createdAt, ttl, time.Now())
}

// Age returns how long ago the given timestamp was
func Age(timestamp time.Time) time.Duration {
	return time.Since(timestamp)
}

// MillisToTime converts a Unix millisecond timestamp to a time.Time
func MillisToTime(millis int64) time.Time {
	return time.UnixMilli(millis)
}

// TimeToMillis converts a time.Time to a Unix millisecond timestamp
func TimeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}
