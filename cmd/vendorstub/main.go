// Command vendorstub runs a fake vendor for local end-to-end testing.
// It answers GET /search?query=... with a single JSON offer, with
// configurable latency and failure rate, so the server can be exercised
// with `kind: endpoint` vendors instead of live sites.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// offer mirrors the JSON shape the endpoint adapter expects.
type offer struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
}

type stub struct {
	name        string
	basePrice   int
	failureRate float64
	maxLatency  time.Duration
	rng         *rand.Rand
	logger      *slog.Logger
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	latency := time.Duration(s.rng.Int63n(int64(s.maxLatency)))
	select {
	case <-time.After(latency):
	case <-r.Context().Done():
		return
	}

	if s.rng.Float64() < s.failureRate {
		s.logger.Warn("simulating vendor failure", "query", query)
		http.Error(w, "vendor exploded", http.StatusInternalServerError)
		return
	}

	// Price wobbles around the base so best-deal selection varies.
	price := s.basePrice + s.rng.Intn(5000) - 2500
	result := offer{
		Platform: s.name,
		Title:    query,
		Price:    formatRupees(price),
		Rating:   strconv.FormatFloat(3.5+s.rng.Float64()*1.5, 'f', 1, 64),
		URL:      fmt.Sprintf("http://localhost/products/%d", s.rng.Intn(100000)),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode offer", "error", err)
	}
}

// formatRupees renders a price with Indian digit grouping, the same
// formatting the live vendors use (e.g. ₹1,23,456).
func formatRupees(v int) string {
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return "₹" + s
	}

	out := s[len(s)-3:]
	s = s[:len(s)-3]
	for len(s) > 2 {
		out = s[len(s)-2:] + "," + out
		s = s[:len(s)-2]
	}
	return "₹" + s + "," + out
}

func main() {
	port := getEnv("PORT", "9001")
	name := getEnv("VENDOR_NAME", "StubMart")
	basePrice, _ := strconv.Atoi(getEnv("BASE_PRICE", "70000"))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	s := &stub{
		name:        name,
		basePrice:   basePrice,
		failureRate: 0.1,
		maxLatency:  300 * time.Millisecond,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.Handle("/search", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("vendor stub listening", "vendor", name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down vendor stub")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("vendor stub stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
