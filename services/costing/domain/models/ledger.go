package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// moneyPlaces is the precision ledger amounts are rounded to.
const moneyPlaces = 4

// EntryKind classifies a recipe ledger entry.
type EntryKind string

const (
	EntryProduction EntryKind = "production"
	EntryWaste      EntryKind = "waste"
	EntrySale       EntryKind = "sale"
)

// LedgerEntry is an append-only record of portions of a recipe produced,
// wasted or sold, priced at the recipe's cost per portion when recorded.
type LedgerEntry struct {
	ID               uuid.UUID
	RecipeID         uuid.UUID
	Kind             EntryKind
	Quantity         float64
	UnitCostSnapshot decimal.Decimal
	TotalCost        decimal.Decimal
	Reason           string
	RecordedAt       time.Time
}

// NewLedgerEntry snapshots recipe's cached cost per portion. Waste needs a reason.
func NewLedgerEntry(recipe *Recipe, kind EntryKind, quantity float64, reason string, at time.Time) (*LedgerEntry, error) {
	switch kind {
	case EntryProduction, EntrySale:
	case EntryWaste:
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: waste entries need a reason", domain.ErrInvalidLedgerEntry)
		}
	default:
		return nil, fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidLedgerEntry, kind)
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	unitCost := decimal.NewFromFloat(recipe.CostPerPortion()).Round(moneyPlaces)
	return &LedgerEntry{
		ID:               uuid.New(),
		RecipeID:         recipe.ID,
		Kind:             kind,
		Quantity:         quantity,
		UnitCostSnapshot: unitCost,
		TotalCost:        unitCost.Mul(decimal.NewFromFloat(quantity)).Round(moneyPlaces),
		Reason:           strings.TrimSpace(reason),
		RecordedAt:       at.UTC(),
	}, nil
}

// MovementKind classifies an ingredient stock movement.
type MovementKind string

const (
	MovementPurchase   MovementKind = "purchase"
	MovementWaste      MovementKind = "waste"
	MovementAdjustment MovementKind = "adjustment"
)

// StockMovement is an append-only record of an ingredient bought, wasted or
// adjusted. Stock levels are never derived from it.
type StockMovement struct {
	ID               uuid.UUID
	IngredientID     uuid.UUID
	Kind             MovementKind
	Quantity         float64
	Unit             string
	UnitCostSnapshot decimal.Decimal
	TotalCost        decimal.Decimal
	Reason           string
	RecordedAt       time.Time
}

// NewStockMovement snapshots the ingredient's unit cost. cost is the value of
// quantity in unit, computed by the caller with the cost calculator.
func NewStockMovement(ing *Ingredient, kind MovementKind, quantity float64, unit string, cost float64, reason string, at time.Time) (*StockMovement, error) {
	switch kind {
	case MovementPurchase, MovementAdjustment:
	case MovementWaste:
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: waste movements need a reason", domain.ErrInvalidLedgerEntry)
		}
	default:
		return nil, fmt.Errorf("%w: unknown movement kind %q", domain.ErrInvalidLedgerEntry, kind)
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	return &StockMovement{
		ID:               uuid.New(),
		IngredientID:     ing.ID,
		Kind:             kind,
		Quantity:         quantity,
		Unit:             unit,
		UnitCostSnapshot: decimal.NewFromFloat(ing.UnitCost).Round(moneyPlaces),
		TotalCost:        decimal.NewFromFloat(cost).Round(moneyPlaces),
		Reason:           strings.TrimSpace(reason),
		RecordedAt:       at.UTC(),
	}, nil
}

func validateQuantity(q float64) error {
	if !(q > 0) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidLedgerEntry)
	}
	return nil
}
