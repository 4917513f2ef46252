package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/pkg/graph"
)

func TestCoerceTime_Layouts(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"graph offset", "2026-08-01T12:30:00+0000", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"rfc3339", "2026-08-01T12:30:00Z", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"sql datetime", "2026-08-01 12:30:00", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"bare date", "2026-08-01", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceTime(tc.input)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
		})
	}
}

func TestCoerceTime_Malformed(t *testing.T) {
	for _, input := range []any{nil, "", "yesterday", "08/01/2026", 12345, time.Time{}} {
		assert.Nil(t, CoerceTime(input), "input %v", input)
	}
}

func TestCoerceTime_Passthrough(t *testing.T) {
	ts := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got := CoerceTime(ts)
	require.NotNil(t, got)
	assert.True(t, got.Equal(ts))

	got = CoerceTime(&ts)
	assert.Same(t, &ts, got)

	got = CoerceTime([]byte("2026-08-01"))
	require.NotNil(t, got)
	assert.True(t, got.Equal(ts))
}

func TestParseLead(t *testing.T) {
	row := ParseLead(graph.Lead{
		ID:          "lead-1",
		CreatedTime: "2026-08-01T12:30:00+0000",
		AdID:        "ad-9",
		AdsetID:     "adset-9",
		CampaignID:  "camp-9",
		Platform:    "fb",
		IsOrganic:   true,
		FieldData: []graph.FieldDatum{
			{Name: "full_name", Values: []string{"Jane Doe"}},
			{Name: "phone_number", Values: []string{"+15551234567", "+15557654321"}},
			{Name: "city", Values: []string{"Austin"}},
		},
	})

	assert.Equal(t, "lead-1", row.LeadID)
	require.NotNil(t, row.CreatedTime)
	assert.Equal(t, "Jane Doe", row.Name)
	// Multi-valued fields contribute their first value only.
	assert.Equal(t, "+15551234567", row.Phone)
	assert.True(t, row.IsOrganic)

	assert.Equal(t, "Jane Doe", row.Fields["full_name"].String())
	assert.Equal(t, "Austin", row.Fields["city"].String())
}

func TestParseLead_AliasPromotion(t *testing.T) {
	row := ParseLead(graph.Lead{
		ID: "lead-2",
		FieldData: []graph.FieldDatum{
			{Name: "name", Values: []string{"Bob"}},
			{Name: "phone", Values: []string{"+15550000000"}},
		},
	})

	assert.Equal(t, "Bob", row.Name)
	assert.Equal(t, "+15550000000", row.Phone)
}

func TestParseLead_MalformedTime(t *testing.T) {
	row := ParseLead(graph.Lead{ID: "lead-3", CreatedTime: "not-a-time"})
	assert.Nil(t, row.CreatedTime)
	assert.Equal(t, "lead-3", row.LeadID)
}

func TestParseLead_EmptyFieldValues(t *testing.T) {
	row := ParseLead(graph.Lead{
		ID:        "lead-4",
		FieldData: []graph.FieldDatum{{Name: "email"}},
	})
	assert.Equal(t, "", row.Fields["email"].String())
}
