package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/domain/dto"
	"github.com/guttosm/salespulse/internal/domain/models"
)

// Client reads dashboard snapshots from the HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the API rooted at baseURL
// (e.g. http://localhost:8080). A nil httpClient uses a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// FetchSnapshot calls GET /api/combined with f.
//
// A non-2xx answer is returned as an *apperror.Error carrying the server's
// kind and message, never as an empty snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, f models.FilterCriteria) (*models.Snapshot, error) {
	endpoint := c.baseURL + "/api/combined?" + encodeCriteria(f).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream("request snapshot", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, apperror.Upstream("decode snapshot", err)
	}
	return &snap, nil
}

func encodeCriteria(f models.FilterCriteria) url.Values {
	q := url.Values{}
	q.Set("month", strconv.Itoa(f.Month))
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	q.Set("perPage", strconv.Itoa(f.Limit()))
	if f.ExplicitOffset != nil {
		q.Set("offset", strconv.Itoa(*f.ExplicitOffset))
	}
	return q
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var er dto.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Message == "" {
		return apperror.New(kindForStatus(resp.StatusCode), fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	kind := apperror.Kind(er.Kind)
	if kind == "" {
		kind = kindForStatus(resp.StatusCode)
	}
	detail := er.Message
	if er.ErrorDetails != "" {
		detail += ": " + er.ErrorDetails
	}
	return apperror.New(kind, detail)
}

func kindForStatus(status int) apperror.Kind {
	switch {
	case status == http.StatusBadRequest:
		return apperror.InvalidFilter
	case status == http.StatusBadGateway:
		return apperror.UpstreamFetchFailed
	case status >= 500:
		return apperror.StorageUnavailable
	default:
		return apperror.Internal
	}
}
