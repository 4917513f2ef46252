package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leadServer serves a fixed dataset page by page, handing out cursor URLs
// the way the live API does.
func leadServer(t *testing.T, total int, requests *int32) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		pageSize, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)

		offset := 0
		if after := r.URL.Query().Get("after"); after != "" {
			offset, err = strconv.Atoi(after)
			require.NoError(t, err)
		}

		end := offset + pageSize
		if end > total {
			end = total
		}

		page := leadsPage{}
		for i := offset; i < end; i++ {
			page.Data = append(page.Data, Lead{ID: fmt.Sprintf("lead-%d", i)})
		}
		if end < total {
			page.Paging.Next = fmt.Sprintf("%s/f1/leads?limit=%d&after=%d", server.URL, pageSize, end)
		}

		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	return server
}

func newTestClient(baseURL string) Client {
	return NewClient("test-token", WithBaseURL(baseURL), WithPageDelay(time.Millisecond))
}

func TestFetchLeads_SinglePage(t *testing.T) {
	var requests int32
	server := leadServer(t, 3, &requests)
	defer server.Close()

	leads, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID: "f1",
		Limit:  20,
	})

	require.NoError(t, err)
	assert.Len(t, leads, 3)
	// One page held the whole result; no cursor was followed.
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestFetchLeads_FollowsCursors(t *testing.T) {
	var requests int32
	server := leadServer(t, 250, &requests)
	defer server.Close()

	leads, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID: "f1",
		Limit:  250,
	})

	require.NoError(t, err)
	require.Len(t, leads, 250)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, "lead-0", leads[0].ID)
	assert.Equal(t, "lead-249", leads[249].ID)
}

func TestFetchLeads_StopsAtLimit(t *testing.T) {
	var requests int32
	server := leadServer(t, 250, &requests)
	defer server.Close()

	leads, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID: "f1",
		Limit:  150,
	})

	require.NoError(t, err)
	// The second page overshoots; the result truncates to the limit and no
	// further cursor is followed.
	assert.Len(t, leads, 150)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFetchLeads_EmptyForm(t *testing.T) {
	var requests int32
	server := leadServer(t, 0, &requests)
	defer server.Close()

	leads, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID: "f1",
		Limit:  100,
	})

	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestFetchLeads_MidPaginationFailureDiscards(t *testing.T) {
	var requests int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":1,"message":"An unknown error occurred"}}`))
			return
		}
		page := leadsPage{
			Data:   []Lead{{ID: "lead-0"}},
			Paging: Paging{Next: server.URL + "/f1/leads?after=1&limit=100"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	leads, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID: "f1",
		Limit:  200,
	})

	// Rows from the successful first page are discarded, not returned.
	require.Error(t, err)
	assert.Nil(t, leads)
}

func TestFetchLeads_RequestParameters(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchLeads(context.Background(), LeadsRequest{
		FormID:    "f1",
		Limit:     50,
		PageSize:  25,
		OlderThan: 1754000000,
		Fields:    []string{"id", "created_time"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"id,created_time"}, gotQuery["fields"])
	require.Len(t, gotQuery["filtering"], 1)
	assert.JSONEq(t,
		`[{"field":"time_created","operator":"LESS_THAN","value":1754000000}]`,
		gotQuery["filtering"][0],
	)
}

func TestFetchLeads_DefaultsAndClamps(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		assert.NotContains(t, r.URL.RawQuery, "filtering")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// Oversized page size clamps to the API maximum.
	_, err := client.FetchLeads(context.Background(), LeadsRequest{FormID: "f1", PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)

	// Zero page size takes the maximum too.
	_, err = client.FetchLeads(context.Background(), LeadsRequest{FormID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)
}

func TestFetchLeads_RequiresFormID(t *testing.T) {
	_, err := newTestClient("http://unused").FetchLeads(context.Background(), LeadsRequest{})
	assert.Error(t, err)
}

func TestFetchLeads_PageDelayBetweenRequests(t *testing.T) {
	var requests int32
	server := leadServer(t, 250, &requests)
	defer server.Close()

	delay := 30 * time.Millisecond
	client := NewClient("test-token", WithBaseURL(server.URL), WithPageDelay(delay))

	start := time.Now()
	leads, err := client.FetchLeads(context.Background(), LeadsRequest{FormID: "f1", Limit: 250})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, leads, 250)
	require.Equal(t, int32(3), atomic.LoadInt32(&requests))
	// Three requests: no wait before the first, one full delay before each
	// of the other two.
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, MaxLimit))
	assert.Equal(t, 1, clamp(-5, 1, MaxLimit))
	assert.Equal(t, MaxLimit, clamp(MaxLimit+1, 1, MaxLimit))
	assert.Equal(t, 42, clamp(42, 1, MaxLimit))
}
