package services

import (
	"errors"
	"testing"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

func TestClassify(t *testing.T) {
	wide, err := NewThresholds("", 30, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		thresholds Thresholds
		cost       float64
		price      float64
		want       Profitability
	}{
		{"ratio at high threshold is regular", wide, 10, 20, ProfitabilityRegular},
		{"ratio at low threshold is optimal", wide, 6, 20, ProfitabilityOptimal},
		{"just above high is critical", wide, 10.01, 20, ProfitabilityCritical},
		{"zero price is critical", wide, 0, 0, ProfitabilityCritical},
		{"negative price is critical", wide, 1, -5, ProfitabilityCritical},
		{"free dish with price is optimal", wide, 0, 20, ProfitabilityOptimal},
		{"default optimal", DefaultThresholds, 25, 100, ProfitabilityOptimal},
		{"default regular", DefaultThresholds, 35, 100, ProfitabilityRegular},
		{"default critical", DefaultThresholds, 36, 100, ProfitabilityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.thresholds.Classify(tt.cost, tt.price); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_MonotonicInCost(t *testing.T) {
	rank := map[Profitability]int{ProfitabilityOptimal: 0, ProfitabilityRegular: 1, ProfitabilityCritical: 2}
	for _, th := range []Thresholds{DefaultThresholds, {LowPercent: 30, HighPercent: 50}, {LowPercent: 0, HighPercent: 0}} {
		for _, price := range []float64{1, 20, 99.5} {
			prev := -1
			for cost := 0.0; cost <= price*2; cost += price / 100 {
				r := rank[th.Classify(cost, price)]
				if r < prev {
					t.Fatalf("thresholds %+v price %v: rating improved as cost rose to %v", th, price, cost)
				}
				prev = r
			}
		}
	}
}

func TestNewThresholds(t *testing.T) {
	th, err := NewThresholds("house", 25, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Version != "house" || th.LowPercent != 25 || th.HighPercent != 40 {
		t.Fatalf("unexpected thresholds %+v", th)
	}

	if th, _ := NewThresholds("", 30, 35); th.Version == "" {
		t.Fatal("an unnamed policy must still get a version")
	}

	for _, pair := range [][2]float64{{40, 30}, {-1, 30}} {
		if _, err := NewThresholds("x", pair[0], pair[1]); !errors.Is(err, domain.ErrInvalidThresholds) {
			t.Errorf("%v: expected ErrInvalidThresholds, got %v", pair, err)
		}
	}
}

func TestSuggestPrice(t *testing.T) {
	got, err := SuggestPrice(30, DefaultTargetMargin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, got, 100)
	approx(t, Margin(got, 30), DefaultTargetMargin)

	if got, _ := SuggestPrice(12, 0); got != 12 {
		t.Fatalf("zero margin should price at cost, got %v", got)
	}

	for _, m := range []float64{100, 120, -1} {
		if _, err := SuggestPrice(10, m); !errors.Is(err, domain.ErrInvalidTargetMargin) {
			t.Errorf("margin %v: expected ErrInvalidTargetMargin, got %v", m, err)
		}
	}
}
