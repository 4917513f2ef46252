// Package store reads lead records from a relational backend and renders
// them as flattened tables.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/leads-cli/internal/model"
)

// LeadFilter specifies criteria for querying the leads table. All present
// filters are AND-combined; absent filters impose no constraint.
type LeadFilter struct {
	// FormID is an exact-match filter on the form identifier.
	FormID string `json:"form_id,omitempty"`
	// Start is an inclusive lower bound on created_time.
	Start *time.Time `json:"start,omitempty"`
	// End is an inclusive upper bound, interpreted as a calendar date and
	// pinned to day-end before querying.
	End *time.Time `json:"end,omitempty"`
}

// Key serializes the full filter parameter set for memoization.
func (f LeadFilter) Key() string {
	start, end := "", ""
	if f.Start != nil {
		start = f.Start.Format(time.RFC3339Nano)
	}
	if f.End != nil {
		end = f.End.Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("form=%s|start=%s|end=%s", f.FormID, start, end)
}

// EndBound returns the End filter pinned to the last nanosecond of its day.
func (f LeadFilter) EndBound() *time.Time {
	if f.End == nil {
		return nil
	}
	y, m, d := f.End.Date()
	pinned := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), f.End.Location())
	return &pinned
}

// LeadStore defines the read-only persistence interface for leads.
type LeadStore interface {
	// QueryLeads runs a filtered read against the leads table, expanding the
	// answers column into prefixed flat columns.
	QueryLeads(ctx context.Context, filter LeadFilter) (*model.Table, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
