package suggest

import "errors"

var (
	// ErrNoAPIKey indicates that no API key is configured.
	ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY environment variable not set")

	// ErrNoKeywords indicates an empty keyword string.
	ErrNoKeywords = errors.New("keywords are required")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("suggestion request timed out")

	// ErrUnavailable indicates the API could not be reached.
	ErrUnavailable = errors.New("suggestion service unavailable")

	// ErrInvalidOutput indicates the response could not be parsed
	// into a list of project names.
	ErrInvalidOutput = errors.New("invalid suggestion output format")
)
