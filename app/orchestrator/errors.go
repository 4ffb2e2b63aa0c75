package orchestrator

import (
	"fmt"
)

// StoreError reports a failed store operation. The orchestrator only logs it
// and falls back to the live feed.
type StoreError struct {
	Op        string
	ChannelID string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed for %s: %v", e.Op, e.ChannelID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// LoadError is returned when no source could produce channel data.
// Cause is the error from the last source attempted.
type LoadError struct {
	ChannelID string
	Cause     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load channel %s: %v", e.ChannelID, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
