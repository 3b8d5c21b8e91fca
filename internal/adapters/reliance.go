package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"
)

const defaultRelianceURL = "https://www.reliancedigital.in"

// Reliance scrapes the Reliance Digital search results page.
type Reliance struct {
	baseURL string
	base    *colly.Collector
}

// NewReliance creates the Reliance Digital adapter.
func NewReliance(baseURL string, timeout time.Duration) *Reliance {
	if baseURL == "" {
		baseURL = defaultRelianceURL
	}
	return &Reliance{baseURL: baseURL, base: newCollector(timeout)}
}

// Name returns the platform name.
func (r *Reliance) Name() string { return "Reliance Digital" }

// Fetch scrapes the first product box for the query. The price block holds
// the currency symbol in its first span and the amount in the second; the
// product link is the anchor wrapping the box.
func (r *Reliance) Fetch(ctx context.Context, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := r.base.Clone()
	var (
		result   *Result
		visitErr error
	)

	c.OnHTML("div.g-product-box", func(e *colly.HTMLElement) {
		if result != nil {
			return
		}

		price := "Price not found"
		if spans := e.DOM.Find("div.g-price span"); spans.Length() > 1 {
			if v := strings.TrimSpace(spans.Eq(1).Text()); v != "" {
				price = v
			}
		}

		productURL := "#"
		if href, ok := e.DOM.ParentsFiltered("a").First().Attr("href"); ok && href != "" {
			productURL = r.baseURL + href
		}

		result = &Result{
			Platform: r.Name(),
			Title:    query,
			Price:    price,
			Rating:   "Not Rated",
			URL:      productURL,
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	searchURL := r.baseURL + "/search?q=" + strings.ReplaceAll(query, " ", "%20")
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("reliance: visit %s: %w", searchURL, err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("reliance: %w", visitErr)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}
