// Package report computes aggregate views over lead tables: the data side
// of the dashboard's charts.
package report

import (
	"sort"
	"time"

	"github.com/sells-group/leads-cli/internal/model"
)

// UnknownBucket groups rows whose created_time is absent or unparseable.
const UnknownBucket = "unknown"

// Bucket is one aggregate count keyed by day or form.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// LeadsPerDay counts leads per calendar day of created_time, sorted by day.
// The unknown bucket, when present, sorts last.
func LeadsPerDay(t *model.Table) []Bucket {
	idx := t.Column("created_time")
	if idx < 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		day := UnknownBucket
		if ts := model.CoerceTime(row[idx]); ts != nil {
			day = ts.UTC().Format("2006-01-02")
		}
		counts[day]++
	}
	return sortBuckets(counts)
}

// LeadsByForm counts leads per form_id. Rows without a form identifier
// group under the unknown bucket.
func LeadsByForm(t *model.Table) []Bucket {
	idx := t.Column("form_id")
	if idx < 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		key := row[idx]
		if key == "" {
			key = UnknownBucket
		}
		counts[key]++
	}
	return sortBuckets(counts)
}

func sortBuckets(counts map[string]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, Bucket{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		// Unknown sorts last; otherwise lexicographic (dates sort naturally).
		if out[i].Key == UnknownBucket {
			return false
		}
		if out[j].Key == UnknownBucket {
			return true
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Span returns the earliest and latest parseable created_time in the table.
func Span(t *model.Table) (earliest, latest *time.Time) {
	idx := t.Column("created_time")
	if idx < 0 {
		return nil, nil
	}
	for _, row := range t.Rows {
		ts := model.CoerceTime(row[idx])
		if ts == nil {
			continue
		}
		if earliest == nil || ts.Before(*earliest) {
			earliest = ts
		}
		if latest == nil || ts.After(*latest) {
			latest = ts
		}
	}
	return earliest, latest
}
