package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"
)

const defaultCromaURL = "https://www.croma.com"

// Croma scrapes the Croma search results page. Croma does not expose
// ratings in its listing markup, so results carry a fixed "Not Rated".
type Croma struct {
	baseURL string
	base    *colly.Collector
}

// NewCroma creates the Croma adapter.
func NewCroma(baseURL string, timeout time.Duration) *Croma {
	if baseURL == "" {
		baseURL = defaultCromaURL
	}
	return &Croma{baseURL: baseURL, base: newCollector(timeout)}
}

// Name returns the platform name.
func (c *Croma) Name() string { return "Croma" }

// Fetch scrapes the first listing item for the query.
func (c *Croma) Fetch(ctx context.Context, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	col := c.base.Clone()
	var (
		result   *Result
		visitErr error
	)

	col.OnHTML("li.product-list-item", func(e *colly.HTMLElement) {
		if result != nil {
			return
		}

		price := firstOr(strings.TrimSpace(e.ChildText("span[data-testid='pdp-product-price']")), "Price not found")

		productURL := "#"
		if href := e.ChildAttr("a.product-img", "href"); href != "" {
			productURL = c.baseURL + href
		}

		result = &Result{
			Platform: c.Name(),
			Title:    query,
			Price:    price,
			Rating:   "Not Rated",
			URL:      productURL,
		}
	})

	col.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	searchURL := c.baseURL + "/searchB?q=" + strings.ReplaceAll(query, " ", "%20") + "%3Arelevance"
	if err := col.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("croma: visit %s: %w", searchURL, err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("croma: %w", visitErr)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}
