package adapters

import (
	"time"

	"github.com/gocolly/colly"
)

// Vendors block obvious bot user agents, so the scraping adapters identify
// as a desktop browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"

// newCollector builds the base collector shared by the scraping adapters.
// Every Fetch clones it so concurrent requests never share callback state.
func newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(browserUserAgent))
	c.IgnoreRobotsTxt = true
	c.SetRequestTimeout(timeout)
	return c
}

// firstOr returns s, or fallback when s is empty.
func firstOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
