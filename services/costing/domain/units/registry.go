// Package units holds the measurement unit registry and the converter built on it.
// A Registry is immutable after construction and safe for concurrent use.
package units

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// Base is the canonical unit of a dimension. Every unit converts to its base by Factor.
type Base string

const (
	BaseKilogram Base = "kg"
	BaseLiter    Base = "l"
	BasePiece    Base = "piece"
)

// Dimension is the physical quantity a unit measures.
type Dimension string

const (
	DimensionMass   Dimension = "mass"
	DimensionVolume Dimension = "volume"
	DimensionCount  Dimension = "count"
)

// Dimension returns the dimension measured by b, or "" for an unknown base.
func (b Base) Dimension() Dimension {
	switch b {
	case BaseKilogram:
		return DimensionMass
	case BaseLiter:
		return DimensionVolume
	case BasePiece:
		return DimensionCount
	default:
		return ""
	}
}

// Unit is an immutable measurement unit.
type Unit struct {
	ID         string   `yaml:"id"          json:"id"`
	Name       string   `yaml:"name"        json:"name"`
	PluralName string   `yaml:"plural_name" json:"plural_name"`
	Aliases    []string `yaml:"aliases"     json:"aliases,omitempty"`
	Factor     float64  `yaml:"factor"      json:"factor"`
	Base       Base     `yaml:"base"        json:"base"`
}

// Dimension returns the dimension of the unit's base.
func (u Unit) Dimension() Dimension {
	return u.Base.Dimension()
}

// Table is the data a Registry is built from. It is what a units file decodes into.
type Table struct {
	Units []Unit `yaml:"units"`
	// DensityMassUnit and DensityVolumeUnit name the units density is expressed in
	// (grams per milliliter by default).
	DensityMassUnit   string `yaml:"density_mass_unit"`
	DensityVolumeUnit string `yaml:"density_volume_unit"`
}

// DefaultTable returns the built-in unit table. Spanish ids from imported
// spreadsheets resolve through aliases.
func DefaultTable() Table {
	return Table{
		Units: []Unit{
			{ID: "kg", Name: "kilogram", PluralName: "kilograms", Aliases: []string{"kilogram", "kilo"}, Factor: 1, Base: BaseKilogram},
			{ID: "g", Name: "gram", PluralName: "grams", Aliases: []string{"gram", "gr"}, Factor: 0.001, Base: BaseKilogram},
			{ID: "lb", Name: "pound", PluralName: "pounds", Aliases: []string{"pound", "libra"}, Factor: 0.453592, Base: BaseKilogram},
			{ID: "oz", Name: "ounce", PluralName: "ounces", Aliases: []string{"ounce", "onza"}, Factor: 0.0283495, Base: BaseKilogram},
			{ID: "l", Name: "liter", PluralName: "liters", Aliases: []string{"liter", "litro", "lt"}, Factor: 1, Base: BaseLiter},
			{ID: "ml", Name: "milliliter", PluralName: "milliliters", Aliases: []string{"milliliter"}, Factor: 0.001, Base: BaseLiter},
			{ID: "gal", Name: "gallon", PluralName: "gallons", Aliases: []string{"gallon", "galon"}, Factor: 3.78541, Base: BaseLiter},
			{ID: "cup", Name: "cup", PluralName: "cups", Aliases: []string{"taza"}, Factor: 0.24, Base: BaseLiter},
			{ID: "tbsp", Name: "tablespoon", PluralName: "tablespoons", Aliases: []string{"tablespoon", "cda"}, Factor: 0.015, Base: BaseLiter},
			{ID: "tsp", Name: "teaspoon", PluralName: "teaspoons", Aliases: []string{"teaspoon", "cdt"}, Factor: 0.005, Base: BaseLiter},
			{ID: "piece", Name: "piece", PluralName: "pieces", Aliases: []string{"pieza", "pc", "pcs"}, Factor: 1, Base: BasePiece},
			{ID: "dozen", Name: "dozen", PluralName: "dozens", Aliases: []string{"docena"}, Factor: 12, Base: BasePiece},
		},
		DensityMassUnit:   "g",
		DensityVolumeUnit: "ml",
	}
}

// Merge returns a copy of t where units in o replace units with the same id
// and new units are appended. Non-empty density units in o win.
func (t Table) Merge(o Table) Table {
	out := Table{
		Units:             make([]Unit, 0, len(t.Units)+len(o.Units)),
		DensityMassUnit:   t.DensityMassUnit,
		DensityVolumeUnit: t.DensityVolumeUnit,
	}
	overrides := make(map[string]Unit, len(o.Units))
	for _, u := range o.Units {
		overrides[strings.ToLower(u.ID)] = u
	}
	for _, u := range t.Units {
		key := strings.ToLower(u.ID)
		if ou, ok := overrides[key]; ok {
			out.Units = append(out.Units, ou)
			delete(overrides, key)
			continue
		}
		out.Units = append(out.Units, u)
	}
	for _, u := range o.Units {
		if _, ok := overrides[strings.ToLower(u.ID)]; ok {
			out.Units = append(out.Units, u)
		}
	}
	if o.DensityMassUnit != "" {
		out.DensityMassUnit = o.DensityMassUnit
	}
	if o.DensityVolumeUnit != "" {
		out.DensityVolumeUnit = o.DensityVolumeUnit
	}
	return out
}

// Registry resolves unit ids and aliases to Units.
type Registry struct {
	units         map[string]Unit
	index         map[string]string // lower-cased id or alias -> id
	ordered       []Unit
	densityMass   Unit
	densityVolume Unit
}

var defaultRegistry = mustRegistry(DefaultTable())

// Default returns the registry built from DefaultTable.
func Default() *Registry {
	return defaultRegistry
}

func mustRegistry(t Table) *Registry {
	r, err := NewRegistry(t)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRegistry validates t and builds a Registry from it.
func NewRegistry(t Table) (*Registry, error) {
	r := &Registry{
		units: make(map[string]Unit, len(t.Units)),
		index: make(map[string]string, len(t.Units)*3),
	}

	for _, u := range t.Units {
		if u.ID == "" {
			return nil, fmt.Errorf("%w: unit with empty id", domain.ErrInvalidUnitTable)
		}
		if u.Base.Dimension() == "" {
			return nil, fmt.Errorf("%w: unit %q has unknown base %q", domain.ErrInvalidUnitTable, u.ID, u.Base)
		}
		if !(u.Factor > 0) || math.IsInf(u.Factor, 0) {
			return nil, fmt.Errorf("%w: unit %q factor must be a positive number, got %v", domain.ErrInvalidUnitTable, u.ID, u.Factor)
		}
		u.Aliases = append([]string(nil), u.Aliases...)
		for _, key := range append([]string{u.ID}, u.Aliases...) {
			k := strings.ToLower(strings.TrimSpace(key))
			if k == "" {
				continue
			}
			if owner, dup := r.index[k]; dup {
				return nil, fmt.Errorf("%w: %q is claimed by both %q and %q", domain.ErrInvalidUnitTable, key, owner, u.ID)
			}
			r.index[k] = u.ID
		}
		r.units[u.ID] = u
		r.ordered = append(r.ordered, u)
	}

	for _, u := range r.ordered {
		base, ok := r.units[string(u.Base)]
		if !ok || base.Base != u.Base || base.Factor != 1 {
			return nil, fmt.Errorf("%w: base %q needs a unit with id %q and factor 1", domain.ErrInvalidUnitTable, u.Base, u.Base)
		}
	}

	var err error
	if r.densityMass, err = r.densityUnit(t.DensityMassUnit, DimensionMass); err != nil {
		return nil, err
	}
	if r.densityVolume, err = r.densityUnit(t.DensityVolumeUnit, DimensionVolume); err != nil {
		return nil, err
	}

	sort.SliceStable(r.ordered, func(i, j int) bool {
		a, b := r.ordered[i], r.ordered[j]
		if a.Dimension() != b.Dimension() {
			return dimensionRank(a.Dimension()) < dimensionRank(b.Dimension())
		}
		return a.Factor < b.Factor
	})
	return r, nil
}

func (r *Registry) densityUnit(id string, want Dimension) (Unit, error) {
	u, err := r.Lookup(id)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: density %s unit %q is not defined", domain.ErrInvalidUnitTable, want, id)
	}
	if u.Dimension() != want {
		return Unit{}, fmt.Errorf("%w: density unit %q must measure %s", domain.ErrInvalidUnitTable, id, want)
	}
	return u, nil
}

func dimensionRank(d Dimension) int {
	switch d {
	case DimensionMass:
		return 0
	case DimensionVolume:
		return 1
	default:
		return 2
	}
}

// Lookup resolves a unit by id or alias, ignoring case.
func (r *Registry) Lookup(id string) (Unit, error) {
	canonical, ok := r.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Unit{}, &domain.UnknownUnitError{UnitID: id}
	}
	return r.units[canonical], nil
}

// All returns every unit ordered by dimension then factor.
func (r *Registry) All() []Unit {
	out := make([]Unit, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// DensityUnits returns the units density ratios are expressed in.
func (r *Registry) DensityUnits() (mass, volume Unit) {
	return r.densityMass, r.densityVolume
}
