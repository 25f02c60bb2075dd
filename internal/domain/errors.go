package domain

import "errors"

// Query error taxonomy. Handlers map these onto HTTP statuses; nothing
// below this layer retries.
var (
	// ErrInvalidQuery marks unrecognized fields, malformed values,
	// negative limits and inverted date ranges. Client error.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound marks a referenced entity that does not exist. An
	// empty result set is not an error and never carries ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a storage transport failure. The caller
	// may retry; this layer does not.
	ErrStoreUnavailable = errors.New("store unavailable")
)
