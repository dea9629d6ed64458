package settings

import (
	"errors"
	"fmt"
)

// Errors returned by manager operations.
var (
	// ErrUnknownKey indicates the schema has no entry for the key.
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrSettingSave indicates a value could not be persisted.
	ErrSettingSave = errors.New("setting save failed")
)

// KeyError reports a lookup for a key the schema does not contain.
type KeyError struct {
	// Key is the schema key that was looked up.
	Key string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("unknown settings key %q", e.Key)
}

// Is implements error matching for KeyError.
func (e *KeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// SaveError reports which key failed to persist.
type SaveError struct {
	// Key is the schema key whose write failed.
	Key string
	// Err is the underlying store error.
	Err error
}

// Error implements the error interface.
func (e *SaveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("saving %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("saving %q failed", e.Key)
}

// Unwrap returns the underlying error.
func (e *SaveError) Unwrap() error {
	return e.Err
}

// Is implements error matching for SaveError.
func (e *SaveError) Is(target error) bool {
	return target == ErrSettingSave
}
