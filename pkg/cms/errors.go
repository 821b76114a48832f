package cms

import "errors"

var (
	// ErrContentTypeNotFound indicates a content type is not registered
	ErrContentTypeNotFound = errors.New("content type not found")

	// ErrEntryNotFound indicates an entry was not found
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStoreRequired indicates a host was built without a store
	ErrStoreRequired = errors.New("store is required")

	// ErrInvalidKey indicates an empty or malformed content type key
	ErrInvalidKey = errors.New("invalid content type key")

	// ErrReservedKey indicates a key or slug that collides with a host route
	ErrReservedKey = errors.New("reserved content type key")
)
