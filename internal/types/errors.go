package types

import (
	"fmt"
)

// ConfigurationError means the completion provider cannot be used at all.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm provider is not configured: %s is missing", e.Setting)
}

// GenerationError means the provider answered without usable text, or the call failed.
type GenerationError struct {
	Mode string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no %s generated: %v", e.Mode, e.Err)
	}
	return fmt.Sprintf("no %s generated", e.Mode)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseDegradation describes an itinerary that could only be kept as raw text.
// It is logged, never returned to callers.
type ParseDegradation struct {
	Reason    error
	RawLength int
}

func (e *ParseDegradation) Error() string {
	return fmt.Sprintf("itinerary kept as raw text (%d bytes): %v", e.RawLength, e.Reason)
}

func (e *ParseDegradation) Unwrap() error { return e.Reason }

// ActivityTimeError marks one activity whose date or time could not be composed.
type ActivityTimeError struct {
	Date string
	Time string
	Err  error
}

func (e *ActivityTimeError) Error() string {
	return fmt.Sprintf("invalid activity time %q on %q: %v", e.Time, e.Date, e.Err)
}

func (e *ActivityTimeError) Unwrap() error { return e.Err }

// BatchInsertError is returned when a materialization batch could not be stored.
// Nothing from the batch is committed.
type BatchInsertError struct {
	Count int
	Err   error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("failed to insert %d trip items: %v", e.Count, e.Err)
}

func (e *BatchInsertError) Unwrap() error { return e.Err }
