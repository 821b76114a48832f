package contenttypes

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey indicates two definitions share a key
	ErrDuplicateKey = errors.New("duplicate content type key")

	// ErrInvalidDefinition indicates a definition breaks a table invariant
	ErrInvalidDefinition = errors.New("invalid content type definition")

	// ErrHostRequired indicates a registry was built without a host
	ErrHostRequired = errors.New("host is required")
)

// RegistrationError wraps a host failure for one content type.
type RegistrationError struct {
	Key string
	Op  string
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("content type operation %s failed for %q: %v", e.Op, e.Key, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
