package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricewise-go/pricewise/internal/adapters"
	"github.com/pricewise-go/pricewise/internal/search"
	"github.com/pricewise-go/pricewise/internal/search/cache"
)

func sampleResponse() *search.Response {
	best := adapters.Result{Platform: "Flipkart", Title: "iphone 15", Price: "₹68,500", Rating: "4.4", URL: "https://example.com"}
	return &search.Response{
		BestDeal: &best,
		AllResults: map[string][]adapters.Result{
			"Flipkart": {best},
		},
	}
}

func TestCache_Key(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	if c.Key("  iPhone 15 ") != c.Key("iphone 15") {
		t.Error("keys should be case and whitespace insensitive")
	}
}

func TestCache_HitAfterFetch(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	fetch := func() (*search.Response, error) {
		calls.Add(1)
		return sampleResponse(), nil
	}

	key := c.Key("iphone 15")
	if _, hit, err := c.GetOrFetch(context.Background(), key, fetch); err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v, want miss and nil", hit, err)
	}
	resp, hit, err := c.GetOrFetch(context.Background(), key, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("second call should be a cache hit")
	}
	if resp.BestDeal.Platform != "Flipkart" {
		t.Errorf("unexpected cached response: %+v", resp)
	}
	if calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1", calls.Load())
	}
}

func TestCache_ErrorNotCached(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	fetch := func() (*search.Response, error) {
		calls.Add(1)
		return nil, search.ErrNoResults
	}

	key := c.Key("unobtainium phone")
	for i := 0; i < 2; i++ {
		if _, _, err := c.GetOrFetch(context.Background(), key, fetch); !errors.Is(err, search.ErrNoResults) {
			t.Fatalf("err = %v, want ErrNoResults", err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("fetch called %d times, want 2 (misses must retry)", calls.Load())
	}
}

func TestCache_Expiry(t *testing.T) {
	c := cache.New(50 * time.Millisecond)
	defer c.Close()

	var calls atomic.Int32
	fetch := func() (*search.Response, error) {
		calls.Add(1)
		return sampleResponse(), nil
	}

	key := c.Key("iphone 15")
	_, _, _ = c.GetOrFetch(context.Background(), key, fetch)
	time.Sleep(80 * time.Millisecond)
	if _, hit, _ := c.GetOrFetch(context.Background(), key, fetch); hit {
		t.Error("entry should have expired")
	}
	if calls.Load() != 2 {
		t.Errorf("fetch called %d times, want 2", calls.Load())
	}
}

func TestCache_CollapsesConcurrentFetches(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func() (*search.Response, error) {
		calls.Add(1)
		<-release
		return sampleResponse(), nil
	}

	key := c.Key("iphone 15")
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := c.GetOrFetch(context.Background(), key, fetch); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1 (requests should collapse)", calls.Load())
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := cache.New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	fetch := func() (*search.Response, error) {
		calls.Add(1)
		return sampleResponse(), nil
	}

	key := c.Key("iphone 15")
	_, _, _ = c.GetOrFetch(context.Background(), key, fetch)
	c.Invalidate(key)
	if _, hit, _ := c.GetOrFetch(context.Background(), key, fetch); hit {
		t.Error("invalidated entry should not hit")
	}
	if calls.Load() != 2 {
		t.Errorf("fetch called %d times, want 2", calls.Load())
	}
}
