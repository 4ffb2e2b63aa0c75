package feed

import (
	"fmt"
)

// ValidationError reports a malformed channel id. It is returned before any I/O happens.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid channel ID %q: must start with %s and be %d characters", e.Input, ChannelIDPrefix, ChannelIDLength)
}

// UpstreamError reports a non-success HTTP status from the feed source.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("YouTube returned %d", e.StatusCode)
}

// ParseError reports a document that is not well-formed feed markup.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid feed document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
