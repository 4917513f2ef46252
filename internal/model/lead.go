package model

import (
	"time"

	"github.com/sells-group/leads-cli/pkg/graph"
)

// AnswerPrefix namespaces flattened answer columns so field names can never
// collide with the fixed identity columns.
const AnswerPrefix = "answer_"

// Row is one lead flattened to a single level: fixed identity columns plus
// the per-form answer fields.
type Row struct {
	LeadID      string           `json:"lead_id"`
	CreatedTime *time.Time       `json:"created_time"`
	Name        string           `json:"name,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	AdID        string           `json:"ad_id,omitempty"`
	AdsetID     string           `json:"adset_id,omitempty"`
	CampaignID  string           `json:"campaign_id,omitempty"`
	Platform    string           `json:"platform,omitempty"`
	IsOrganic   bool             `json:"is_organic"`
	Fields      map[string]Value `json:"fields,omitempty"`
}

// timeLayouts are tried in order when coercing a created_time value.
// The Graph API emits RFC3339 with a colon-less zone offset.
var timeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceTime converts a raw created_time value to a timestamp. Malformed or
// absent values coerce to nil rather than failing the record.
func CoerceTime(raw any) *time.Time {
	switch t := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		return t
	case []byte:
		return parseTimeString(string(t))
	case string:
		return parseTimeString(t)
	default:
		return nil
	}
}

func parseTimeString(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

// ParseLead maps one raw Graph API lead to a flat row. Each field takes its
// first value only; the common full_name/name and phone_number/phone aliases
// are promoted to the fixed Name and Phone columns in addition to appearing
// under the answer prefix.
func ParseLead(raw graph.Lead) Row {
	row := Row{
		LeadID:      raw.ID,
		CreatedTime: CoerceTime(raw.CreatedTime),
		AdID:        raw.AdID,
		AdsetID:     raw.AdsetID,
		CampaignID:  raw.CampaignID,
		Platform:    raw.Platform,
		IsOrganic:   raw.IsOrganic,
		Fields:      make(map[string]Value, len(raw.FieldData)),
	}

	for _, fd := range raw.FieldData {
		first := ""
		if len(fd.Values) > 0 {
			first = fd.Values[0]
		}
		row.Fields[fd.Name] = Scalar(first)

		switch fd.Name {
		case "full_name", "name":
			if row.Name == "" {
				row.Name = first
			}
		case "phone_number", "phone":
			if row.Phone == "" {
				row.Phone = first
			}
		}
	}

	return row
}
