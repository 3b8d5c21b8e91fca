// Package handler implements the HTTP surface: the search API, the
// chatbot endpoint and the static UI page.
package handler

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pricewise-go/pricewise/internal/gemini"
	"github.com/pricewise-go/pricewise/internal/middleware"
	"github.com/pricewise-go/pricewise/internal/obs"
	"github.com/pricewise-go/pricewise/internal/search"
	"github.com/pricewise-go/pricewise/internal/search/cache"
	"github.com/pricewise-go/pricewise/internal/search/ratelimit"
)

//go:embed index.html
var indexPage []byte

// Handler handles HTTP requests.
type Handler struct {
	engine      *search.Engine
	cache       *cache.Cache
	rateLimiter *ratelimit.Limiter
	describer   *gemini.Client
	logger      *slog.Logger
}

// New creates a new Handler.
func New(
	engine *search.Engine,
	searchCache *cache.Cache,
	rateLimiter *ratelimit.Limiter,
	describer *gemini.Client,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		engine:      engine,
		cache:       searchCache,
		rateLimiter: rateLimiter,
		describer:   describer,
		logger:      logger,
	}
}

// IndexHandler serves the static UI page.
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		h.logger.Error("failed to write index page", "error", err)
	}
}

// SearchHandler handles GET /search?query=... requests.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.RequestID(r.Context())

	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(ip) {
		obs.RateLimitRejectedTotal.Inc()
		h.logger.Warn("rate limit exceeded", "request_id", requestID, "ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "A search query is required.")
		return
	}

	key := h.cache.Key(query)
	resp, cacheHit, err := h.cache.GetOrFetch(r.Context(), key, func() (*search.Response, error) {
		return h.engine.Search(r.Context(), query)
	})
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Could not find '%s' on any platform.", query))
			return
		}
		if errors.Is(err, search.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "A search query is required.")
			return
		}
		h.logger.Error("search failed",
			"request_id", requestID,
			"query", query,
			"error", err,
			"ip", ip,
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if cacheHit {
		obs.CacheHitsTotal.Inc()
	} else {
		obs.SearchDuration.Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}

type chatbotRequest struct {
	ProductName string `json:"product_name"`
}

type chatbotResponse struct {
	Description string `json:"description"`
}

// ChatbotHandler handles POST /chatbot requests.
func (h *Handler) ChatbotHandler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req chatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ProductName) == "" {
		writeError(w, http.StatusBadRequest, "Product name is required.")
		return
	}

	description, err := h.describer.Describe(r.Context(), req.ProductName)
	if err != nil {
		switch {
		case errors.Is(err, gemini.ErrNotConfigured):
			obs.DescribeRequestsTotal.WithLabelValues("not_configured").Inc()
			h.logger.Error("description service not configured", "request_id", requestID)
			writeError(w, http.StatusInternalServerError, "AI service is not configured by the administrator.")
		case errors.Is(err, gemini.ErrUpstream):
			obs.DescribeRequestsTotal.WithLabelValues("upstream_error").Inc()
			h.logger.Error("description service unreachable", "request_id", requestID, "error", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to connect to the AI service.")
		default:
			obs.DescribeRequestsTotal.WithLabelValues("error").Inc()
			h.logger.Error("description request failed", "request_id", requestID, "error", err)
			writeError(w, http.StatusInternalServerError, "Sorry, I couldn't fetch the product description right now.")
		}
		return
	}

	obs.DescribeRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, chatbotResponse{Description: description}, h.logger)
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't change status after WriteHeader, just log
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
