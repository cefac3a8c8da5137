// Package validation holds small value helpers shared by the schema,
// repository, and bridge layers.
package validation

import (
	"strings"
	"time"
)

func StringPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

// StringPtrIfNotEmpty returns a pointer to s, or nil when s is blank.
func StringPtrIfNotEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// GetStringOrEmpty returns the string value or an empty string if nil
func GetStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetStringOrDefault returns the string value or a default value if nil
func GetStringOrDefault(s *string, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	return *s
}

// GetBoolOrFalse returns the bool value or false if nil
func GetBoolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func FormatTimePtrToString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
