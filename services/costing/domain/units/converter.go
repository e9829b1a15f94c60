package units

import "math"

// DefaultDensity is the density assumed when an ingredient has none (water, 1 g/ml).
const DefaultDensity = 1.0

// Conversion is the result of converting a quantity between units.
// Degraded is set when the units measure incompatible dimensions (count against
// mass or volume); Value then carries the input quantity unchanged.
type Conversion struct {
	Value    float64
	Degraded bool
}

// Converter converts quantities between units of one Registry.
type Converter struct {
	reg *Registry
}

// NewConverter returns a Converter over reg.
func NewConverter(reg *Registry) *Converter {
	return &Converter{reg: reg}
}

// Registry returns the registry units are resolved against.
func (c *Converter) Registry() *Registry {
	return c.reg
}

// Convert converts quantity from one unit id to another. density is mass per
// volume in the registry's density units; values <= 0 mean unset.
func (c *Converter) Convert(quantity float64, fromID, toID string, density float64) (Conversion, error) {
	from, err := c.reg.Lookup(fromID)
	if err != nil {
		return Conversion{}, err
	}
	to, err := c.reg.Lookup(toID)
	if err != nil {
		return Conversion{}, err
	}
	return c.ConvertUnits(quantity, from, to, density), nil
}

// ConvertUnits converts between already resolved units.
func (c *Converter) ConvertUnits(quantity float64, from, to Unit, density float64) Conversion {
	if !(density > 0) || math.IsInf(density, 0) {
		density = DefaultDensity
	}
	massRef, volumeRef := c.reg.DensityUnits()

	switch {
	case from.Base == to.Base:
		return Conversion{Value: quantity * from.Factor / to.Factor}
	case from.Dimension() == DimensionMass && to.Dimension() == DimensionVolume:
		mass := quantity * from.Factor / massRef.Factor
		volume := mass / density
		return Conversion{Value: volume * volumeRef.Factor / to.Factor}
	case from.Dimension() == DimensionVolume && to.Dimension() == DimensionMass:
		volume := quantity * from.Factor / volumeRef.Factor
		mass := volume * density
		return Conversion{Value: mass * massRef.Factor / to.Factor}
	default:
		return Conversion{Value: quantity, Degraded: true}
	}
}
