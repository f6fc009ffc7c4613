package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError wraps multiple validation errors that occurred while checking a decoded record or the plugin settings.
type ValidationError struct {
	ContextName string
	Errors      []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.ContextName != "" {
		sb.WriteString(fmt.Sprintf("invalid values for %s", e.ContextName))
	} else {
		sb.WriteString("invalid values")
	}
	if len(e.Errors) >= 1 {
		sb.WriteString(":")
	}

	for _, err := range e.Errors {
		sb.WriteString("\n       ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// UnderlyingErrors returns the slice of individual validation errors (immutable).
func (e *ValidationError) UnderlyingErrors() []error {
	if e.Errors == nil {
		return nil
	}

	// Return a copy to prevent mutations
	result := make([]error, len(e.Errors))
	copy(result, e.Errors)

	return result
}

var ErrMalformed = errors.New("malformed configuration document")

// DecodeError represents a configuration document that cannot be decoded into a record.
type DecodeError struct {
	Path    string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path == "" {
		return fmt.Sprintf("malformed document: %s", msg)
	}

	return fmt.Sprintf("document '%s': malformed: %s", e.Path, msg)
}

func (e *DecodeError) Source() string {
	return e.Path
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}

	return []error{ErrMalformed, e.Err}
}

// These are all LoadError
var (
	ErrNoHome              = errors.New("home directory unresolvable")
	ErrIO                  = errors.New("profile source unreadable")
	ErrMissingCaptureGroup = errors.New("missing capture group")
	ErrDuplicateShorthand  = errors.New("duplicate shorthand")
)

// LoadError represents a failure that aborts a whole catalog load.
//
// Source is the configuration document (or filesystem location) the failure is attributed to.
type LoadError interface {
	error
	Source() string
}

// NoHomeError represents a home-relative profile directory that cannot be expanded
type NoHomeError struct {
	Path string
	Dir  string
	Err  error
}

func (e *NoHomeError) Error() string {
	msg := fmt.Sprintf("document '%s': profile dir '%s': home directory unresolvable", e.Path, e.Dir)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *NoHomeError) Source() string {
	return e.Path
}

func (e *NoHomeError) Unwrap() error {
	return ErrNoHome
}

// IOError represents an unreadable configuration document, profile directory, or profile file
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Source() string {
	return e.Path
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// MissingCaptureGroupError represents a profile regex match that did not capture group 1
type MissingCaptureGroupError struct {
	Path    string
	Pattern string
	Match   string
}

func (e *MissingCaptureGroupError) Error() string {
	return fmt.Sprintf("document '%s': regex '%s': no group matched for name in '%s'", e.Path, e.Pattern, e.Match)
}

func (e *MissingCaptureGroupError) Source() string {
	return e.Path
}

func (e *MissingCaptureGroupError) Unwrap() error {
	return ErrMissingCaptureGroup
}

// DuplicateShorthandError represents two documents declaring the same shorthand
type DuplicateShorthandError struct {
	Shorthand string
	First     string
	Path      string
}

func (e *DuplicateShorthandError) Error() string {
	return fmt.Sprintf("document '%s': shorthand '%s' already declared by '%s'", e.Path, e.Shorthand, e.First)
}

func (e *DuplicateShorthandError) Source() string {
	return e.Path
}

func (e *DuplicateShorthandError) Unwrap() error {
	return ErrDuplicateShorthand
}

func NewDecodeError(path, message string, err error) error {
	return &DecodeError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}

func NewNoHomeError(path, dir string, err error) error {
	return &NoHomeError{
		Path: path,
		Dir:  dir,
		Err:  err,
	}
}

func NewIOError(op, path string, err error) error {
	return &IOError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}

func NewMissingCaptureGroupError(path, pattern, match string) error {
	return &MissingCaptureGroupError{
		Path:    path,
		Pattern: pattern,
		Match:   match,
	}
}

func NewDuplicateShorthandError(shorthand, first, path string) error {
	return &DuplicateShorthandError{
		Shorthand: shorthand,
		First:     first,
		Path:      path,
	}
}

var ErrSpawn = errors.New("couldn't spawn process")

// SpawnError represents a launch line that could not be turned into a running process.
//
// It never reaches the launcher: activation logs it and reports success.
type SpawnError struct {
	Line string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("launch line '%s': %v", e.Line, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

func NewSpawnError(line string, err error) error {
	return &SpawnError{
		Line: line,
		Err:  err,
	}
}

var ErrInvalidRequest = errors.New("invalid request")

// RequestError represents an inbound protocol line that is not a known request
type RequestError struct {
	Line    string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request '%s': %s", e.Line, e.Message)
}

func (e *RequestError) Unwrap() error {
	return ErrInvalidRequest
}

func NewRequestError(line, message string) error {
	return &RequestError{
		Line:    line,
		Message: message,
	}
}
