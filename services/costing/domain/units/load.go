package units

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

// LoadTable decodes a YAML unit table. Unknown keys are rejected.
//
//	density_mass_unit: g
//	density_volume_unit: ml
//	units:
//	  - id: pinch
//	    name: pinch
//	    factor: 0.0003
//	    base: l
func LoadTable(r io.Reader) (Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("%w: decode: %w", domain.ErrInvalidUnitTable, err)
	}
	return t, nil
}

// LoadRegistry builds a registry from the default table merged with the YAML
// overrides read from r.
func LoadRegistry(r io.Reader) (*Registry, error) {
	overrides, err := LoadTable(r)
	if err != nil {
		return nil, err
	}
	return NewRegistry(DefaultTable().Merge(overrides))
}

// LoadRegistryFile is LoadRegistry for a file path. An empty path yields Default().
func LoadRegistryFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open units file: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return LoadRegistry(f)
}
