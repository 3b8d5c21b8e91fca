package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Endpoint queries a vendor that already speaks JSON instead of HTML,
// such as the local stub vendors used for development runs.
type Endpoint struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// NewEndpoint creates a JSON endpoint adapter.
func NewEndpoint(name, baseURL string, timeout time.Duration) *Endpoint {
	return &Endpoint{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the platform name.
func (p *Endpoint) Name() string { return p.name }

// Fetch performs GET <base>/search?query=... and decodes a single Result.
func (p *Endpoint) Fetch(ctx context.Context, query string) (*Result, error) {
	u, err := url.Parse(p.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base URL: %w", p.name, err)
	}

	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", p.name, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: status %d: %s", p.name, resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", p.name, err)
	}
	if result.Platform == "" {
		result.Platform = p.name
	}
	return &result, nil
}
