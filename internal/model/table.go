package model

import (
	"fmt"
	"sort"
	"time"
)

// Table is a rendered batch of leads. The column set is the superset union
// across all rows in the batch, computed once per batch; absent values
// render as empty strings.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// leadColumns is the fixed identity column order for fetched leads.
var leadColumns = []string{
	"lead_id", "created_time", "name", "phone",
	"ad_id", "adset_id", "campaign_id", "platform", "is_organic",
}

// BuildLeadTable renders fetched lead rows into a table. Answer fields sort
// alphabetically after the identity columns under the answer prefix.
func BuildLeadTable(rows []Row) *Table {
	fieldSet := make(map[string]struct{})
	for _, r := range rows {
		for name := range r.Fields {
			fieldSet[name] = struct{}{}
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for name := range fieldSet {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	columns := make([]string, 0, len(leadColumns)+len(fields))
	columns = append(columns, leadColumns...)
	for _, f := range fields {
		columns = append(columns, AnswerPrefix+f)
	}

	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		cells := make([]string, 0, len(columns))
		cells = append(cells,
			r.LeadID,
			renderTime(r.CreatedTime),
			r.Name,
			r.Phone,
			r.AdID,
			r.AdsetID,
			r.CampaignID,
			r.Platform,
			fmt.Sprintf("%t", r.IsOrganic),
		)
		for _, f := range fields {
			cells = append(cells, r.Fields[f].String())
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// BuildRecordTable renders raw store records into a table. The original
// column order is preserved, created_time values are coerced to timestamps
// (invalid becomes empty), and an answers column is expanded into prefixed
// flat columns and dropped.
func BuildRecordTable(columns []string, records []map[string]any) *Table {
	base := make([]string, 0, len(columns))
	hasAnswers := false
	for _, c := range columns {
		if c == "answers" {
			hasAnswers = true
			continue
		}
		base = append(base, c)
	}

	var answerCols []string
	flattened := make([]map[string]Value, len(records))
	if hasAnswers {
		fieldSet := make(map[string]struct{})
		for i, rec := range records {
			flat := FlattenAnswers(rec["answers"])
			flattened[i] = flat
			for name := range flat {
				fieldSet[name] = struct{}{}
			}
		}
		for name := range fieldSet {
			answerCols = append(answerCols, name)
		}
		sort.Strings(answerCols)
	}

	out := make([]string, 0, len(base)+len(answerCols))
	out = append(out, base...)
	for _, c := range answerCols {
		out = append(out, AnswerPrefix+c)
	}

	t := &Table{Columns: out, Rows: make([][]string, 0, len(records))}
	for i, rec := range records {
		cells := make([]string, 0, len(out))
		for _, c := range base {
			v := rec[c]
			if c == "created_time" {
				cells = append(cells, renderTime(CoerceTime(v)))
				continue
			}
			cells = append(cells, renderCell(v))
		}
		for _, c := range answerCols {
			if v, ok := flattened[i][c]; ok {
				cells = append(cells, v.String())
			} else {
				cells = append(cells, "")
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Column returns the index of a named column, or -1 if absent.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func renderTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func renderCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case Value:
		return t.String()
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return fmt.Sprint(t)
	}
}
