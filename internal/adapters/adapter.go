// Package adapters contains the vendor integrations behind the price search.
// Each adapter wraps one vendor's search-and-extract logic; the markup
// selectors rot independently of the rest of the service and live only here.
package adapters

import (
	"context"
	"errors"
)

// Result is a single product offer as extracted from a vendor.
// Price keeps the vendor's own formatting (e.g. "₹1,23,456.78"); it is
// normalized into a sort key elsewhere and transmitted raw on the wire.
type Result struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
}

// Adapter is implemented by each vendor integration.
type Adapter interface {
	// Name returns the platform name reported in results.
	Name() string
	// Fetch looks the query up on the vendor and returns its top offer.
	// A page that loads but contains no product yields ErrNotFound.
	Fetch(ctx context.Context, query string) (*Result, error)
}

// ErrNotFound is returned when a vendor has no product for the query.
var ErrNotFound = errors.New("product not found")
