package schema

import (
	"errors"
	"fmt"
)

// Errors returned by schema operations.
var (
	// ErrInvalidControlType indicates an item declared a control type
	// outside the closed set.
	ErrInvalidControlType = errors.New("invalid control type")

	// ErrInvalidSchema indicates the schema container itself is unusable
	// (for example a nil item map on bulk replace).
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrInvalidSchemaItem indicates a schema entry is not a valid item.
	ErrInvalidSchemaItem = errors.New("invalid schema item")
)

// ItemError reports the first schema entry that failed validation.
type ItemError struct {
	// Key is the schema key of the offending entry.
	Key string
	// Err is the underlying validation error.
	Err error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema item %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("schema item %q: invalid", e.Key)
}

// Unwrap returns the underlying error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// Is implements error matching for ItemError.
func (e *ItemError) Is(target error) bool {
	return target == ErrInvalidSchemaItem
}
