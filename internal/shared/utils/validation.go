package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits
const (
	MaxInputSize   = 16 * 1024 // single input frame or request
	MaxCommandSize = 4 * 1024
	MaxIDLength    = 128
)

var (
	// SafeIDPattern matches session ids: alphanumerics, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ToolIDPattern additionally allows the dot of service.tool
	ToolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

// FieldError describes which field failed and why.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

func (e *FieldError) Unwrap() error { return ErrInvalid }

func invalid(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateString checks length in runes and rejects NUL bytes. Empty
// values pass unless required.
func ValidateString(value, field string, minLen, maxLen int, required bool) error {
	if value == "" {
		if required {
			return invalid(field, "is required")
		}
		return nil
	}
	switch n := utf8.RuneCountInString(value); {
	case n < minLen:
		return invalid(field, "must be at least %d characters", minLen)
	case n > maxLen:
		return invalid(field, "must not exceed %d characters", maxLen)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return invalid(field, "contains invalid characters")
	}
	return nil
}

// ValidateID validates a session or client id.
func ValidateID(id, field string, required bool) error {
	return matchID(id, field, required, SafeIDPattern, "alphanumeric, hyphens and underscores")
}

// ValidateToolID validates a service.tool id.
func ValidateToolID(id, field string, required bool) error {
	return matchID(id, field, required, ToolIDPattern, "alphanumeric, dots, hyphens and underscores")
}

func matchID(id, field string, required bool, pattern *regexp.Regexp, allowed string) error {
	if err := ValidateString(id, field, 1, MaxIDLength, required); err != nil {
		return err
	}
	if id != "" && !pattern.MatchString(id) {
		return invalid(field, "may only contain %s", allowed)
	}
	return nil
}

// ValidateInput bounds a raw keystroke payload. Control bytes are
// allowed; they are how the line editor is driven.
func ValidateInput(raw string) error {
	if raw == "" {
		return invalid("input", "is required")
	}
	if len(raw) > MaxInputSize {
		return invalid("input", "of %d bytes exceeds maximum %d bytes", len(raw), MaxInputSize)
	}
	return nil
}

// ValidateCommand checks a single command line.
func ValidateCommand(cmd string) error {
	if err := ValidateString(cmd, "command", 1, MaxCommandSize, true); err != nil {
		return err
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return invalid("command", "must be a single line")
	}
	return nil
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripANSI removes CSI escape sequences such as colors and cursor moves.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
