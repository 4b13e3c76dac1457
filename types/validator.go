package types

import (
	"fmt"
	"sort"
	"strings"
)

// Validator is the opaque validation capability attached to a channel.
// Parse receives the raw channel input (body bytes, or a query/params map)
// and returns the coerced value. A normal validation failure must be reported
// as *ValidationError; any other error type is treated by the orchestrator as
// an internal contract violation.
type Validator interface {
	Parse(raw interface{}) (interface{}, error)
}

type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(path, message string) {
	e.Fields[path] = append(e.Fields[path], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", path, strings.Join(e.Fields[path], "; ")))
	}

	return "validation failed: " + strings.Join(parts, ", ")
}
