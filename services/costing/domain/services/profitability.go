package services

import (
	"fmt"
	"math"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// Profitability is the tri-state rating of a recipe's cost against its price.
type Profitability string

const (
	ProfitabilityOptimal  Profitability = "optimal"
	ProfitabilityRegular  Profitability = "regular"
	ProfitabilityCritical Profitability = "critical"
)

// Thresholds bound the cost-to-price ratio, in percent. A ratio at or below
// LowPercent is optimal, at or below HighPercent regular, anything higher critical.
// Version names the policy so stored classifications can be traced to it.
type Thresholds struct {
	Version     string  `json:"version"`
	LowPercent  float64 `json:"low_percent"`
	HighPercent float64 `json:"high_percent"`
}

// DefaultThresholds is the cost-ratio policy used unless configuration overrides it.
var DefaultThresholds = Thresholds{Version: "cost-ratio-v1", LowPercent: 30, HighPercent: 35}

// NewThresholds validates 0 <= low <= high.
func NewThresholds(version string, low, high float64) (Thresholds, error) {
	if math.IsNaN(low) || math.IsNaN(high) || low < 0 || high < low {
		return Thresholds{}, fmt.Errorf("%w: need 0 <= low (%v) <= high (%v)", domain.ErrInvalidThresholds, low, high)
	}
	if version == "" {
		version = fmt.Sprintf("cost-ratio-%g-%g", low, high)
	}
	return Thresholds{Version: version, LowPercent: low, HighPercent: high}, nil
}

// CostRatio returns cost/sellPrice*100, or +Inf when sellPrice <= 0.
func CostRatio(cost, sellPrice float64) float64 {
	if sellPrice <= 0 {
		return math.Inf(1)
	}
	return cost / sellPrice * 100
}

// Classify rates cost against sellPrice. A non-positive price is always critical.
func (t Thresholds) Classify(cost, sellPrice float64) Profitability {
	if sellPrice <= 0 {
		return ProfitabilityCritical
	}
	ratio := CostRatio(cost, sellPrice)
	switch {
	case ratio <= t.LowPercent:
		return ProfitabilityOptimal
	case ratio <= t.HighPercent:
		return ProfitabilityRegular
	default:
		return ProfitabilityCritical
	}
}
