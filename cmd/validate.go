package main

import (
	"fmt"
	"strconv"
	"time"
)

// ValidationError marks invalid user-supplied input. It is surfaced before
// any network or database call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// parseEpoch parses a unix-epoch timestamp flag. Empty input means unset.
func parseEpoch(field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid unix timestamp", s)}
	}
	if n < 0 {
		return 0, &ValidationError{Field: field, Reason: "timestamp must not be negative"}
	}
	return n, nil
}

// parseDate parses a YYYY-MM-DD date flag. Empty input means unset.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid date (want YYYY-MM-DD)", s)}
	}
	return &ts, nil
}

// validateDateRange rejects ranges whose start falls after the end.
func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return &ValidationError{Field: "date range", Reason: "start date is after end date"}
	}
	return nil
}
