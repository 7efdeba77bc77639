package news

import "errors"

var (
	// ErrSourceUnavailable covers transport, auth and rate-limit
	// failures from a headline source. Recoverable: the pipeline skips
	// the affected fetch and keeps the rest.
	ErrSourceUnavailable = errors.New("headline source unavailable")

	// ErrInvalidQuery marks a full-text search attempted with an empty
	// query. This is a programming error on the caller's side and is
	// raised before any network call.
	ErrInvalidQuery = errors.New("invalid query")
)
