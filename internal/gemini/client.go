// Package gemini wraps the Google generative-language REST API used to
// produce short product descriptions.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash-preview-05-20"

	// FallbackDescription is returned when the API answers successfully
	// but without the expected text field.
	FallbackDescription = "Could not retrieve a description."
)

var (
	// ErrNotConfigured means no API key was provided at startup. This is
	// an administrator problem, not a per-request one.
	ErrNotConfigured = errors.New("gemini api key not configured")

	// ErrUpstream covers transport failures and non-2xx answers from the
	// generative-language API.
	ErrUpstream = errors.New("gemini request failed")
)

// Config holds the gateway settings. Zero values fall back to the
// production endpoint and model.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client calls the generateContent endpoint. An upstream-politeness
// limiter paces outbound calls so a burst of chatbot requests cannot trip
// the API's quota.
type Client struct {
	apiKey  string
	baseURL string
	model   string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a description-service client. An empty API key yields
// a client whose Describe always returns ErrNotConfigured; the rest of
// the service keeps working.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		logger:  logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []contentBlock `json:"contents"`
}

type contentBlock struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content contentBlock `json:"content"`
	} `json:"candidates"`
}

// Describe asks the API for a one-paragraph description of the product.
// The product name is embedded in the prompt verbatim. A structurally
// unexpected answer degrades to FallbackDescription instead of an error.
func (c *Client) Describe(ctx context.Context, productName string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	prompt := "Provide a brief, one-paragraph description for the following product, focusing on its key features: " + productName
	payload, err := json.Marshal(generateRequest{
		Contents: []contentBlock{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, res.StatusCode, truncate(body, 256))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.Warn("description response not decodable", "error", err)
		return FallbackDescription, nil
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn("description response missing text field", "model", c.model)
		return FallbackDescription, nil
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return FallbackDescription, nil
	}
	return text, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
