package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		list     string
		duration time.Duration
		demo     float64
		want     string
	}{
		{"no demo minutes charges list price", "80", time.Hour, 0, "80.00"},
		{"half covered", "80", time.Hour, 30, "40.00"},
		{"fully covered is free", "80", time.Hour, 60, "0.00"},
		{"over-covered stays free", "80", time.Hour, 90, "0.00"},
		{"fractional coverage rounds to cents", "50", 45 * time.Minute, 10, "38.89"},
		{"zero duration falls back to list", "25", 0, 10, "25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := decimal.RequireFromString(tt.list)
			got := EffectivePrice(list, tt.duration, tt.demo)
			if got.StringFixed(2) != tt.want {
				t.Errorf("EffectivePrice() = %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}
