package services

import (
	"fmt"
	"math"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// DefaultTargetMargin is the margin, in percent, price suggestions aim for when none is given.
const DefaultTargetMargin = 70.0

// SuggestPrice returns the sell price that yields targetMargin percent on
// costPerPortion: cost / (1 - margin/100).
func SuggestPrice(costPerPortion, targetMargin float64) (float64, error) {
	if math.IsNaN(targetMargin) || targetMargin < 0 || targetMargin >= 100 {
		return 0, fmt.Errorf("%w: %v must be in [0, 100)", domain.ErrInvalidTargetMargin, targetMargin)
	}
	if math.IsNaN(costPerPortion) || costPerPortion < 0 {
		return 0, fmt.Errorf("%w: cost per portion must be zero or positive", domain.ErrInvalidRecipe)
	}
	return costPerPortion / (1 - targetMargin/100), nil
}
