package search_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricewise-go/pricewise/internal/adapters"
	"github.com/pricewise-go/pricewise/internal/search"
)

// mockAdapter is a test adapter that returns a predefined result.
type mockAdapter struct {
	name   string
	result *adapters.Result
	err    error
	delay  time.Duration
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Fetch(ctx context.Context, query string) (*adapters.Result, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
	return m.result, m.err
}

func offer(platform, price string) *adapters.Result {
	return &adapters.Result{
		Platform: platform,
		Title:    "iphone 15",
		Price:    price,
		Rating:   "4.5",
		URL:      "https://example.com/p/1",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEngine_Dispatch_FailureIsolation(t *testing.T) {
	list := []adapters.Adapter{
		&mockAdapter{name: "Amazon", err: errors.New("connection refused")},
		&mockAdapter{name: "Flipkart", result: offer("Flipkart", "₹70,000")},
		&mockAdapter{name: "Croma", result: offer("Croma", "₹68,500")},
	}

	e := search.NewEngine(list, 2*time.Second, testLogger())
	results := e.Dispatch(context.Background(), "iphone 15")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Platform == "Amazon" {
			t.Error("failed adapter must not contribute a result")
		}
	}
}

func TestEngine_Dispatch_NotFoundContributesNothing(t *testing.T) {
	list := []adapters.Adapter{
		&mockAdapter{name: "Amazon", err: adapters.ErrNotFound},
		&mockAdapter{name: "Flipkart", err: adapters.ErrNotFound},
	}

	e := search.NewEngine(list, 2*time.Second, testLogger())
	if results := e.Dispatch(context.Background(), "obscure thing"); len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestEngine_Dispatch_SlowAdapterTimesOut(t *testing.T) {
	list := []adapters.Adapter{
		&mockAdapter{name: "Amazon", result: offer("Amazon", "₹70,000"), delay: 5 * time.Second},
		&mockAdapter{name: "Flipkart", result: offer("Flipkart", "₹68,500")},
	}

	e := search.NewEngine(list, 200*time.Millisecond, testLogger())

	start := time.Now()
	results := e.Dispatch(context.Background(), "iphone 15")
	elapsed := time.Since(start)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Platform != "Flipkart" {
		t.Errorf("unexpected platform %q", results[0].Platform)
	}
	if elapsed > 2*time.Second {
		t.Errorf("dispatch took %v, deadline not enforced", elapsed)
	}
}

// recordingAdapter flags whether Fetch was ever invoked.
type recordingAdapter struct {
	mockAdapter
	called atomic.Bool
}

func (r *recordingAdapter) Fetch(ctx context.Context, query string) (*adapters.Result, error) {
	r.called.Store(true)
	return r.mockAdapter.Fetch(ctx, query)
}

func TestEngine_Search_EmptyQuery(t *testing.T) {
	rec := &recordingAdapter{mockAdapter: mockAdapter{name: "Amazon", result: offer("Amazon", "₹70,000")}}
	e := search.NewEngine([]adapters.Adapter{rec}, 2*time.Second, testLogger())

	_, err := e.Search(context.Background(), "   ")
	if !errors.Is(err, search.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
	if rec.called.Load() {
		t.Error("adapters must not be called for an empty query")
	}
}

func TestEngine_Search_EndToEnd(t *testing.T) {
	list := []adapters.Adapter{
		&mockAdapter{name: "Amazon", result: offer("Amazon", "₹70,000")},
		&mockAdapter{name: "Flipkart", result: offer("Flipkart", "₹68,500")},
		&mockAdapter{name: "Croma", result: offer("Croma", "₹71,200")},
		&mockAdapter{name: "Reliance Digital", err: errors.New("status 529")},
	}

	e := search.NewEngine(list, 2*time.Second, testLogger())
	resp, err := e.Search(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.BestDeal == nil || resp.BestDeal.Platform != "Flipkart" {
		t.Fatalf("best deal = %+v, want Flipkart", resp.BestDeal)
	}
	if len(resp.AllResults) != 3 {
		t.Fatalf("expected 3 platform buckets, got %d", len(resp.AllResults))
	}
}

func TestEngine_Search_AllAdaptersFail(t *testing.T) {
	list := []adapters.Adapter{
		&mockAdapter{name: "Amazon", err: errors.New("boom")},
		&mockAdapter{name: "Flipkart", err: adapters.ErrNotFound},
	}

	e := search.NewEngine(list, 2*time.Second, testLogger())
	if _, err := e.Search(context.Background(), "iphone 15"); !errors.Is(err, search.ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}
