package provider

import "errors"

var (
	// ErrMissingAPIKey is returned by New when no key is configured.
	ErrMissingAPIKey = errors.New("no API key configured")

	// ErrEmptyReply is returned when the model answers without any text.
	ErrEmptyReply = errors.New("model returned an empty reply")

	// ErrTimeout is returned when a call runs past llm.timeout.
	ErrTimeout = errors.New("model call timed out")
)
