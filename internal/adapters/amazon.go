package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"
)

const defaultAmazonURL = "https://www.amazon.in"

// Amazon scrapes the Amazon India search results page.
type Amazon struct {
	baseURL string
	base    *colly.Collector
}

// NewAmazon creates the Amazon adapter. An empty baseURL selects the live
// site; tests point it at a local server.
func NewAmazon(baseURL string, timeout time.Duration) *Amazon {
	if baseURL == "" {
		baseURL = defaultAmazonURL
	}
	return &Amazon{baseURL: baseURL, base: newCollector(timeout)}
}

// Name returns the platform name.
func (a *Amazon) Name() string { return "Amazon" }

// Fetch scrapes the first organic search result for the query.
func (a *Amazon) Fetch(ctx context.Context, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := a.base.Clone()
	var (
		result   *Result
		visitErr error
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML(`div[data-asin][data-component-type='s-search-result']`, func(e *colly.HTMLElement) {
		if result != nil {
			return
		}

		price := strings.TrimSpace(e.ChildText("span.a-price-whole"))
		if price == "" {
			price = "Price not found"
		} else {
			price = "₹" + price
		}

		rating := "Rating not found"
		if alt := strings.Fields(e.ChildText("span.a-icon-alt")); len(alt) > 0 {
			rating = alt[0]
		}

		productURL := "URL not found"
		if href := e.ChildAttr("a.a-link-normal", "href"); href != "" {
			productURL = a.baseURL + href
		}

		result = &Result{
			Platform: a.Name(),
			Title:    query,
			Price:    price,
			Rating:   rating,
			URL:      productURL,
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	searchURL := a.baseURL + "/s?k=" + strings.Join(strings.Fields(query), "+")
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("amazon: visit %s: %w", searchURL, err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("amazon: %w", visitErr)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}
