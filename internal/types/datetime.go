package types

import (
	"fmt"
	"time"
)

// datetime-local form inputs omit the seconds.
const localDateTimeMinutesLayout = "2006-01-02T15:04"

// ParseDate parses an optional YYYY-MM-DD value. Nil and "" both mean absent.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("date %q must be YYYY-MM-DD", *s)
	}
	return &t, nil
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseLocalDateTime accepts YYYY-MM-DDTHH:MM[:SS] or RFC3339. An offset, when
// present, is dropped and the wall-clock time kept.
func ParseLocalDateTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{LocalDateTimeLayout, localDateTimeMinutesLayout} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("datetime %q must be YYYY-MM-DDTHH:MM:SS", *s)
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return &wall, nil
}

func FormatLocalDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(LocalDateTimeLayout)
	return &s
}
