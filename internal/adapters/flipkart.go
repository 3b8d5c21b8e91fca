package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"
)

const defaultFlipkartURL = "https://www.flipkart.com"

// Flipkart scrapes the Flipkart search results page.
type Flipkart struct {
	baseURL string
	base    *colly.Collector
}

// NewFlipkart creates the Flipkart adapter.
func NewFlipkart(baseURL string, timeout time.Duration) *Flipkart {
	if baseURL == "" {
		baseURL = defaultFlipkartURL
	}
	return &Flipkart{baseURL: baseURL, base: newCollector(timeout)}
}

// Name returns the platform name.
func (f *Flipkart) Name() string { return "Flipkart" }

// Fetch scrapes the first product card for the query. Flipkart renders
// results with obfuscated class names that change between layout pushes;
// the selectors here track the grid layout current at time of writing.
func (f *Flipkart) Fetch(ctx context.Context, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.base.Clone()
	var (
		result   *Result
		visitErr error
	)

	c.OnHTML("div._13oc-S", func(e *colly.HTMLElement) {
		if result != nil {
			return
		}

		title := strings.TrimSpace(e.ChildText("a.s1Q9rs"))
		if title == "" {
			title = strings.TrimSpace(e.ChildText("div._4rR01T"))
		}
		if title == "" {
			title = query
		}

		price := firstOr(strings.TrimSpace(e.ChildText("div._30jeq3")), "Price not found")
		rating := firstOr(strings.TrimSpace(e.ChildText("div._3LWZlK")), "Rating not found")

		productURL := "URL not found"
		if href := e.ChildAttr("a", "href"); href != "" {
			productURL = f.baseURL + href
		}

		result = &Result{
			Platform: f.Name(),
			Title:    title,
			Price:    price,
			Rating:   rating,
			URL:      productURL,
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	searchURL := f.baseURL + "/search?q=" + strings.Join(strings.Fields(query), "+")
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("flipkart: visit %s: %w", searchURL, err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("flipkart: %w", visitErr)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}
