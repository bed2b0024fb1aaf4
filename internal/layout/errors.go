package layout

import (
	"bytes"
	"fmt"
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	// ErrTypeMismatch marks a node whose shape is not what its position requires.
	ErrTypeMismatch ErrorKind = iota
	// ErrMissingField marks an absent required field.
	ErrMissingField
	// ErrMutualExclusion marks two fields that may not appear together.
	ErrMutualExclusion
	// ErrUnrecognizedField marks a key outside a closed schema.
	ErrUnrecognizedField
	// ErrUnionMismatch marks a value that fits no arm of an untagged union.
	ErrUnionMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrMissingField:
		return "missing required field"
	case ErrMutualExclusion:
		return "mutual exclusion violation"
	case ErrUnrecognizedField:
		return "unrecognized field"
	case ErrUnionMismatch:
		return "union mismatch"
	}
	return "validation error"
}

// ValidationError represents a layout validation error with context
type ValidationError struct {
	Kind       ErrorKind
	Path       string // field path from the document root (e.g. "fw.data.version.type")
	Message    string
	Suggestion string // helpful suggestion (optional)
	Line       int    // line number in the source document (if available)
}

// Error returns a formatted error message
func (e *ValidationError) Error() string {
	var msg string
	if e.Line > 0 {
		msg = fmt.Sprintf("validation error at %s (line %d): %s", e.Path, e.Line, e.Message)
	} else if e.Path != "" {
		msg = fmt.Sprintf("validation error at %s: %s", e.Path, e.Message)
	} else {
		msg = fmt.Sprintf("validation error: %s", e.Message)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("found %d validation errors:\n", len(e)))
	for i, err := range e {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return buf.String()
}

// HasKind reports whether any error in the collection has the given kind.
func (e ValidationErrors) HasKind(kind ErrorKind) bool {
	for _, err := range e {
		if err.Kind == kind {
			return true
		}
	}
	return false
}
