package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MaxLimit bounds the total rows one fetch call may request.
	MaxLimit = 3200
	// MaxPageSize bounds the per-request page size.
	MaxPageSize = 100
	// DefaultPageDelay is the fixed wait between cursor-driven requests.
	// A flat throttle, not adaptive backoff.
	DefaultPageDelay = 120 * time.Millisecond
)

// DefaultLeadFields is the field set requested when the caller supplies none.
var DefaultLeadFields = []string{
	"field_data", "created_time", "ad_id", "adset_id",
	"campaign_id", "is_organic", "platform", "id",
}

// Lead is one raw lead record as returned by the API.
type Lead struct {
	ID          string       `json:"id"`
	CreatedTime string       `json:"created_time"`
	AdID        string       `json:"ad_id"`
	AdsetID     string       `json:"adset_id"`
	CampaignID  string       `json:"campaign_id"`
	Platform    string       `json:"platform"`
	IsOrganic   bool         `json:"is_organic"`
	FieldData   []FieldDatum `json:"field_data"`
}

// FieldDatum is one submitted form field with its value list.
type FieldDatum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// LeadsRequest parameterizes a paginated lead fetch.
type LeadsRequest struct {
	// FormID is the lead-gen form to read. Required.
	FormID string
	// Limit is the desired total row count, clamped to [1, MaxLimit].
	Limit int
	// PageSize is the per-request page size, clamped to [1, MaxPageSize].
	// Zero means MaxPageSize.
	PageSize int
	// OlderThan, when non-zero, restricts results to leads created strictly
	// before this unix epoch (encoded as a LESS_THAN filtering clause).
	OlderThan int64
	// Fields overrides DefaultLeadFields when non-empty.
	Fields []string
}

// leadsPage is one page of the paginated leads envelope.
type leadsPage struct {
	Data   []Lead `json:"data"`
	Paging Paging `json:"paging"`
}

// FetchLeads follows pagination cursors until the requested limit or
// exhaustion. Between consecutive cursor-driven requests it waits the fixed
// page delay, never before the first request. Any request failure aborts the
// whole call: rows accumulated from earlier pages are discarded, and the
// caller must re-invoke. There is no automatic retry.
func (c *httpClient) FetchLeads(ctx context.Context, req LeadsRequest) ([]Lead, error) {
	if req.FormID == "" {
		return nil, eris.New("graph: form id is required")
	}

	limit := clamp(req.Limit, 1, MaxLimit)
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = MaxPageSize
	}
	pageSize = clamp(pageSize, 1, MaxPageSize)

	fields := req.Fields
	if len(fields) == 0 {
		fields = DefaultLeadFields
	}

	next, err := c.firstLeadsURL(req.FormID, pageSize, fields, req.OlderThan)
	if err != nil {
		return nil, err
	}

	// Burst 1 limiter: the first Wait is immediate, every subsequent Wait
	// spaces requests by the fixed page delay.
	throttle := rate.NewLimiter(rate.Every(c.pageDelay), 1)

	var leads []Lead
	pages := 0
	for {
		if err := throttle.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "graph: page throttle wait")
		}

		var page leadsPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		pages++

		if len(page.Data) == 0 {
			// Exhaustion, not an error.
			break
		}
		leads = append(leads, page.Data...)

		if len(leads) >= limit {
			leads = leads[:limit]
			break
		}
		if page.Paging.Next == "" {
			break
		}
		// The cursor URL already encodes limit, fields, and filtering.
		next = page.Paging.Next
	}

	zap.L().Debug("lead fetch complete",
		zap.String("form_id", req.FormID),
		zap.Int("pages", pages),
		zap.Int("rows", len(leads)),
	)
	return leads, nil
}

// firstLeadsURL builds the initial request URL; only the first request
// carries explicit query parameters.
func (c *httpClient) firstLeadsURL(formID string, pageSize int, fields []string, olderThan int64) (string, error) {
	params := url.Values{
		"limit":  {fmt.Sprint(pageSize)},
		"fields": {strings.Join(fields, ",")},
	}
	if olderThan > 0 {
		clause, err := json.Marshal([]map[string]any{{
			"field":    "time_created",
			"operator": "LESS_THAN",
			"value":    olderThan,
		}})
		if err != nil {
			return "", eris.Wrap(err, "graph: encode filtering clause")
		}
		params.Set("filtering", string(clause))
	}
	return fmt.Sprintf("%s/%s/leads?%s", c.baseURL, url.PathEscape(formID), params.Encode()), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
