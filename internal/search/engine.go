// Package search runs a product query against every registered vendor
// adapter concurrently and aggregates whatever comes back.
package search

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pricewise-go/pricewise/internal/adapters"
	"github.com/pricewise-go/pricewise/internal/obs"
)

// ErrEmptyQuery is returned for a blank query, before any adapter is called.
var ErrEmptyQuery = errors.New("empty search query")

// Engine fans a query out to all registered adapters. The adapter list is
// fixed at construction and never mutated, so an Engine is safe for use by
// any number of concurrent requests.
type Engine struct {
	adapters []adapters.Adapter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewEngine creates an Engine with an overall per-search deadline.
func NewEngine(list []adapters.Adapter, timeout time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		adapters: slices.Clone(list),
		timeout:  timeout,
		logger:   logger,
	}
}

// Dispatch queries every adapter concurrently and returns the successful
// results in completion order. A slow or failing adapter never blocks or
// poisons the others: its error is logged and counted, and it simply
// contributes nothing. Dispatch blocks until every adapter has finished
// or the overall deadline has expired.
func (e *Engine) Dispatch(ctx context.Context, query string) []adapters.Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]adapters.Result, 0, len(e.adapters))
	)

	for _, a := range e.adapters {
		a := a
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			res, err := a.Fetch(ctx, query)
			if err != nil {
				if errors.Is(err, adapters.ErrNotFound) {
					e.logger.Debug("adapter returned no result",
						"platform", a.Name(),
						"query", query)
					return
				}
				obs.AdapterErrorsTotal.WithLabelValues(a.Name()).Inc()
				e.logger.Error("adapter fetch failed",
					"platform", a.Name(),
					"query", query,
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return
			}

			mu.Lock()
			results = append(results, *res)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// Search validates the query, dispatches it and aggregates the results.
func (e *Engine) Search(ctx context.Context, query string) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return Aggregate(e.Dispatch(ctx, query))
}
