package services

import (
	"fmt"

	"github.com/ghuser/kitchenledger/pkg/config"
	domainsvcs "github.com/ghuser/kitchenledger/services/costing/domain/services"
	"github.com/ghuser/kitchenledger/services/costing/domain/units"
)

// Engine bundles the stateless costing pieces shared by every service.
type Engine struct {
	Units            *units.Registry
	Calculator       *domainsvcs.Calculator
	Aggregator       *domainsvcs.Aggregator
	Thresholds       domainsvcs.Thresholds
	LowMarginPercent float64
}

// NewEngine wires a calculator and aggregator over reg.
func NewEngine(reg *units.Registry, thresholds domainsvcs.Thresholds, lowMarginPercent float64) *Engine {
	calc := domainsvcs.NewCalculator(units.NewConverter(reg))
	return &Engine{
		Units:            reg,
		Calculator:       calc,
		Aggregator:       domainsvcs.NewAggregator(calc),
		Thresholds:       thresholds,
		LowMarginPercent: lowMarginPercent,
	}
}

// DefaultEngine uses the built-in units and the default classification policy.
func DefaultEngine() *Engine {
	return NewEngine(units.Default(), domainsvcs.DefaultThresholds, 50)
}

// EngineFromConfig loads the unit table file, if any, and the configured thresholds.
func EngineFromConfig(cfg *config.Config) (*Engine, error) {
	reg, err := units.LoadRegistryFile(cfg.UnitsFile)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	th, err := domainsvcs.NewThresholds(cfg.ProfitabilityVersion, cfg.ProfitabilityLowPercent, cfg.ProfitabilityHighPercent)
	if err != nil {
		return nil, err
	}
	return NewEngine(reg, th, cfg.LowMarginPercent), nil
}
