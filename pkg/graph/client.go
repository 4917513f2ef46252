// Package graph provides a read-only client for the Meta Graph API lead
// retrieval endpoints: identity resolution, page and form discovery, and
// paginated lead listing.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Graph API, version pinned.
const defaultBaseURL = "https://graph.facebook.com/v23.0"

// formsPageLimit is the fixed page size for form discovery.
const formsPageLimit = 200

// Client defines the Graph API operations used by the lead dashboard.
type Client interface {
	// Me resolves the identity behind the bearer token.
	Me(ctx context.Context) (*User, error)
	// ListPages returns the pages the token can act for.
	ListPages(ctx context.Context) ([]Page, error)
	// ListForms returns the lead-gen forms owned by a page.
	ListForms(ctx context.Context, pageID string) ([]Form, error)
	// FetchLeads retrieves leads for a form, following pagination cursors
	// until the requested limit or exhaustion.
	FetchLeads(ctx context.Context, req LeadsRequest) ([]Lead, error)
}

// User is the identity behind an access token.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is an advertiser-owned entity that owns lead-gen forms.
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Form is a lead-generation form definition.
type Form struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Paging carries the opaque continuation cursor for a result page.
type Paging struct {
	Next string `json:"next"`
}

// APIError is returned when the API responds with a non-200 status and a
// well-formed error body.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph: HTTP %d: code %d: %s", e.Status, e.Code, e.Message)
}

// ProtocolError is returned when the response body is not valid JSON.
type ProtocolError struct {
	Status int
	Body   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("graph: HTTP %d: non-JSON response: %s", e.Status, e.Body)
}

// bodySnippetLen bounds the body excerpt carried by a ProtocolError.
const bodySnippetLen = 512

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default versioned base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPageDelay overrides the fixed wait between cursor-driven requests.
func WithPageDelay(d time.Duration) Option {
	return func(c *httpClient) {
		c.pageDelay = d
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	token     string
	baseURL   string
	pageDelay time.Duration
	http      *http.Client
}

// NewClient creates a Graph API client authenticated with a bearer token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:     token,
		baseURL:   defaultBaseURL,
		pageDelay: DefaultPageDelay,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, c.baseURL+"/me?fields=id,name", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *httpClient) ListPages(ctx context.Context) ([]Page, error) {
	var resp struct {
		Data []Page `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/me/accounts?fields=id,name", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *httpClient) ListForms(ctx context.Context, pageID string) ([]Form, error) {
	reqURL := fmt.Sprintf("%s/%s/leadgen_forms?%s", c.baseURL, url.PathEscape(pageID), url.Values{
		"fields": {"id,name"},
		"limit":  {fmt.Sprint(formsPageLimit)},
	}.Encode())

	var resp struct {
		Data []Form `json:"data"`
	}
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// getJSON performs an authenticated GET and decodes the response into out.
// A non-JSON body yields a ProtocolError; a non-200 status with a JSON
// error body yields an APIError.
func (c *httpClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "graph: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "graph: execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "graph: read response body")
	}

	if !json.Valid(body) {
		return &ProtocolError{Status: resp.StatusCode, Body: snippet(body)}
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		return &APIError{
			Status:  resp.StatusCode,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "graph: decode response")
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) > bodySnippetLen {
		return string(body[:bodySnippetLen])
	}
	return string(body)
}
