package search

import (
	"errors"
	"slices"
	"sort"

	"github.com/pricewise-go/pricewise/internal/adapters"
	"github.com/pricewise-go/pricewise/internal/pricing"
)

// ErrNoResults is returned when every adapter failed or came back empty.
var ErrNoResults = errors.New("no platform returned a result")

// Response is the aggregated outcome of one search. BestDeal is the offer
// with the lowest normalized price; AllResults groups every offer by
// platform, in the order the adapters delivered them.
type Response struct {
	BestDeal   *adapters.Result             `json:"best_deal"`
	AllResults map[string][]adapters.Result `json:"all_results"`
}

// Aggregate ranks the result set by normalized price and groups it by
// platform. Ranking sorts a copy: the grouping keeps the original arrival
// order within each platform bucket. Ties on normalized price keep their
// first-seen order (stable sort).
func Aggregate(results []adapters.Result) (*Response, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	ranked := slices.Clone(results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return pricing.Normalize(ranked[i].Price) < pricing.Normalize(ranked[j].Price)
	})
	best := ranked[0]

	grouped := make(map[string][]adapters.Result, len(results))
	for _, r := range results {
		grouped[r.Platform] = append(grouped[r.Platform], r)
	}

	return &Response{
		BestDeal:   &best,
		AllResults: grouped,
	}, nil
}
