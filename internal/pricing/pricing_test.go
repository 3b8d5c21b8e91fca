package pricing_test

import (
	"math"
	"testing"

	"github.com/pricewise-go/pricewise/internal/pricing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "indian grouping with symbol", raw: "₹1,23,456.78", want: 123456.78},
		{name: "western grouping", raw: "$1,234.50", want: 1234.50},
		{name: "plain integer", raw: "70,000", want: 70000},
		{name: "whole rupee price", raw: "₹68,500", want: 68500},
		{name: "leading text", raw: "MRP ₹999", want: 999},
		{name: "placeholder text", raw: "Price not found", want: math.Inf(1)},
		{name: "empty string", raw: "", want: math.Inf(1)},
		{name: "only symbols", raw: "₹,-", want: math.Inf(1)},
		{name: "multiple decimal points", raw: "1.2.3", want: math.Inf(1)},
		{name: "lone dot", raw: ".", want: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Normalize(tt.raw)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Fatalf("Normalize(%q) = %v, want +Inf", tt.raw, got)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := pricing.Normalize("₹1,23,456.78"); got != 123456.78 {
			t.Fatalf("expected 123456.78, got %v", got)
		}
	}
}
