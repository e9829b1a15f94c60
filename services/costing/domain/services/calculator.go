// Package services contains the stateless costing engine of the costing bounded context.
// Everything here operates purely on domain types: no I/O, no shared mutable state,
// safe for concurrent use.
package services

import (
	"github.com/google/uuid"

	"github.com/ghuser/kitchenledger/services/costing/domain/units"
)

// LineCost is the cost of one recipe line. Degraded reports that the usage unit
// could not be converted into the purchase unit and the quantity was used as is.
type LineCost struct {
	LineID   uuid.UUID `json:"line_id"`
	Name     string    `json:"name"`
	Cost     float64   `json:"cost"`
	Degraded bool      `json:"degraded"`
}

// Calculator prices a usage quantity against an ingredient's purchase terms.
type Calculator struct {
	conv *units.Converter
}

// NewCalculator returns a Calculator converting through conv.
func NewCalculator(conv *units.Converter) *Calculator {
	return &Calculator{conv: conv}
}

// Converter returns the converter the calculator uses.
func (c *Calculator) Converter() *units.Converter {
	return c.conv
}

// LineCost converts usageQty from usageUnit into purchaseUnit and multiplies
// by unitCost. The result is non-negative for non-negative inputs.
func (c *Calculator) LineCost(usageQty float64, usageUnit, purchaseUnit string, unitCost, density float64) (LineCost, error) {
	conv, err := c.conv.Convert(usageQty, usageUnit, purchaseUnit, density)
	if err != nil {
		return LineCost{}, err
	}
	return LineCost{Cost: conv.Value * unitCost, Degraded: conv.Degraded}, nil
}
