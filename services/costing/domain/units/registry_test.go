package units

import (
	"errors"
	"strings"
	"testing"

	"github.com/ghuser/kitchenledger/services/costing/domain"
)

func TestDefault_Lookup(t *testing.T) {
	tests := []struct {
		id       string
		wantID   string
		wantBase Base
		factor   float64
	}{
		{"kg", "kg", BaseKilogram, 1},
		{"G", "g", BaseKilogram, 0.001},
		{"lb", "lb", BaseKilogram, 0.453592},
		{"oz", "oz", BaseKilogram, 0.0283495},
		{"l", "l", BaseLiter, 1},
		{"ml", "ml", BaseLiter, 0.001},
		{"gal", "gal", BaseLiter, 3.78541},
		{"cup", "cup", BaseLiter, 0.24},
		{"tbsp", "tbsp", BaseLiter, 0.015},
		{"tsp", "tsp", BaseLiter, 0.005},
		{"piece", "piece", BasePiece, 1},
		{"dozen", "dozen", BasePiece, 12},
		{"pieza", "piece", BasePiece, 1},
		{"docena", "dozen", BasePiece, 12},
		{"taza", "cup", BaseLiter, 0.24},
		{"cda", "tbsp", BaseLiter, 0.015},
		{" cdt ", "tsp", BaseLiter, 0.005},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			u, err := Default().Lookup(tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.ID != tt.wantID || u.Base != tt.wantBase || u.Factor != tt.factor {
				t.Fatalf("got %+v, want id=%s base=%s factor=%v", u, tt.wantID, tt.wantBase, tt.factor)
			}
		})
	}
}

func TestDefault_LookupUnknown(t *testing.T) {
	_, err := Default().Lookup("stone")
	if !errors.Is(err, domain.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	var ue *domain.UnknownUnitError
	if !errors.As(err, &ue) || ue.UnitID != "stone" {
		t.Fatalf("expected UnknownUnitError for stone, got %v", err)
	}
}

func TestDefault_AllOrderedByDimensionThenFactor(t *testing.T) {
	all := Default().All()
	if len(all) != 12 {
		t.Fatalf("expected 12 units, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if dimensionRank(prev.Dimension()) > dimensionRank(cur.Dimension()) {
			t.Fatalf("%s listed after %s", prev.ID, cur.ID)
		}
		if prev.Dimension() == cur.Dimension() && prev.Factor > cur.Factor {
			t.Fatalf("%s (%v) listed before %s (%v)", prev.ID, prev.Factor, cur.ID, cur.Factor)
		}
	}

	all[0].ID = "mutated"
	if Default().All()[0].ID == "mutated" {
		t.Fatal("All must return a copy")
	}
}

func TestDefault_DensityUnits(t *testing.T) {
	mass, volume := Default().DensityUnits()
	if mass.ID != "g" || volume.ID != "ml" {
		t.Fatalf("expected g/ml, got %s/%s", mass.ID, volume.ID)
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	base := DefaultTable()
	tests := []struct {
		name  string
		table Table
	}{
		{"zero factor", base.Merge(Table{Units: []Unit{{ID: "pinch", Factor: 0, Base: BaseLiter}}})},
		{"negative factor", base.Merge(Table{Units: []Unit{{ID: "pinch", Factor: -1, Base: BaseLiter}}})},
		{"unknown base", base.Merge(Table{Units: []Unit{{ID: "pinch", Factor: 1, Base: "stone"}}})},
		{"empty id", base.Merge(Table{Units: []Unit{{Factor: 1, Base: BaseLiter}}})},
		{"duplicate alias", base.Merge(Table{Units: []Unit{{ID: "pinch", Aliases: []string{"CDA"}, Factor: 0.0003, Base: BaseLiter}}})},
		{"base factor not 1", base.Merge(Table{Units: []Unit{{ID: "kg", Factor: 2, Base: BaseKilogram}}})},
		{"missing density unit", base.Merge(Table{DensityMassUnit: "grain"})},
		{"density unit wrong dimension", base.Merge(Table{DensityVolumeUnit: "g"})},
		{"missing base unit", Table{Units: []Unit{{ID: "g", Factor: 0.001, Base: BaseKilogram}}, DensityMassUnit: "g", DensityVolumeUnit: "g"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.table)
			if !errors.Is(err, domain.ErrInvalidUnitTable) {
				t.Fatalf("expected ErrInvalidUnitTable, got %v", err)
			}
		})
	}
}

func TestTable_Merge(t *testing.T) {
	merged := DefaultTable().Merge(Table{Units: []Unit{
		{ID: "cup", Name: "us cup", Factor: 0.2366, Base: BaseLiter},
		{ID: "pinch", Name: "pinch", Factor: 0.0003, Base: BaseLiter},
	}})

	reg, err := NewRegistry(merged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cup, err := reg.Lookup("cup")
	if err != nil {
		t.Fatalf("lookup cup: %v", err)
	}
	if cup.Factor != 0.2366 || cup.Name != "us cup" {
		t.Fatalf("cup not overridden: %+v", cup)
	}
	if _, err := reg.Lookup("taza"); err == nil {
		t.Fatal("overriding cup without aliases should drop the taza alias")
	}
	if _, err := reg.Lookup("pinch"); err != nil {
		t.Fatalf("pinch not added: %v", err)
	}
	if len(reg.All()) != 13 {
		t.Fatalf("expected 13 units, got %d", len(reg.All()))
	}
}

func TestLoadRegistry_YAML(t *testing.T) {
	doc := `
units:
  - id: pinch
    name: pinch
    plural_name: pinches
    aliases: [pizca]
    factor: 0.0003
    base: l
`
	reg, err := LoadRegistry(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := reg.Lookup("pizca")
	if err != nil {
		t.Fatalf("lookup alias: %v", err)
	}
	if u.ID != "pinch" || u.PluralName != "pinches" || u.Dimension() != DimensionVolume {
		t.Fatalf("unexpected unit: %+v", u)
	}
	if _, err := reg.Lookup("kg"); err != nil {
		t.Fatalf("defaults must survive merge: %v", err)
	}
}

func TestLoadRegistry_EmptyDocumentYieldsDefaults(t *testing.T) {
	reg, err := LoadRegistry(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.All()) != len(Default().All()) {
		t.Fatalf("expected default table, got %d units", len(reg.All()))
	}
}

func TestLoadTable_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadTable(strings.NewReader("unitz: []\n"))
	if !errors.Is(err, domain.ErrInvalidUnitTable) {
		t.Fatalf("expected ErrInvalidUnitTable, got %v", err)
	}
}

func TestLoadRegistryFile_EmptyPath(t *testing.T) {
	reg, err := LoadRegistryFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg != Default() {
		t.Fatal("empty path should return the default registry")
	}
}
