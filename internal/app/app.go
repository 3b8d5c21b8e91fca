// Package app wires the service together and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricewise-go/pricewise/internal/adapters"
	"github.com/pricewise-go/pricewise/internal/config"
	"github.com/pricewise-go/pricewise/internal/gemini"
	"github.com/pricewise-go/pricewise/internal/handler"
	"github.com/pricewise-go/pricewise/internal/middleware"
	"github.com/pricewise-go/pricewise/internal/obs"
	"github.com/pricewise-go/pricewise/internal/search"
	"github.com/pricewise-go/pricewise/internal/search/cache"
	"github.com/pricewise-go/pricewise/internal/search/ratelimit"
)

// Run initializes and runs the application.
func Run(configPath string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	vendors, err := buildAdapters(cfg)
	if err != nil {
		return err
	}
	logger.Info("registered vendors", "count", len(vendors))

	engine := search.NewEngine(vendors, cfg.SearchTimeout(), logger)

	searchCache := cache.New(cfg.CacheTTL())
	defer searchCache.Close()

	limiter := ratelimit.New(cfg.Search.RateLimit.Requests, cfg.RateLimitWindow())
	defer limiter.Close()

	describer := gemini.NewClient(gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		Timeout:           time.Duration(cfg.Gemini.TimeoutSec) * time.Second,
	}, logger)
	if !describer.Configured() {
		// The search side keeps working; /chatbot answers with a
		// configuration error until the key is provided.
		logger.Warn("GEMINI_API_KEY not set, product descriptions disabled")
	}

	h := handler.New(engine, searchCache, limiter, describer, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.IndexHandler)
	mux.HandleFunc("GET /search", h.SearchHandler)
	mux.HandleFunc("POST /chatbot", h.ChatbotHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.Handle("GET /metrics", obs.MetricsHandler())

	wrappedHandler := middleware.Logging(logger)(mux)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      wrappedHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// buildAdapters turns the vendor configuration into the immutable adapter
// registry the engine fans out to.
func buildAdapters(cfg *config.Config) ([]adapters.Adapter, error) {
	timeout := cfg.AdapterTimeout()

	list := make([]adapters.Adapter, 0, len(cfg.Vendors))
	for _, v := range cfg.Vendors {
		if v.Disabled {
			continue
		}
		switch v.Kind {
		case "amazon":
			list = append(list, adapters.NewAmazon(v.BaseURL, timeout))
		case "flipkart":
			list = append(list, adapters.NewFlipkart(v.BaseURL, timeout))
		case "croma":
			list = append(list, adapters.NewCroma(v.BaseURL, timeout))
		case "reliance":
			list = append(list, adapters.NewReliance(v.BaseURL, timeout))
		case "endpoint":
			list = append(list, adapters.NewEndpoint(v.Name, v.BaseURL, timeout))
		default:
			return nil, fmt.Errorf("%w: got %q", config.ErrUnknownVendorKind, v.Kind)
		}
	}
	return list, nil
}
