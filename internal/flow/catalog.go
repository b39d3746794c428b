package flow

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// FlowPricing is one flow's price table: a base amount plus a per-option
// increment for each selected entry in the named option fields.
type FlowPricing struct {
	Base         float64            `yaml:"base"`
	OptionFields map[string]float64 `yaml:"option_fields"`
}

// Catalog holds the price tables for every flow, keyed by flow name.
type Catalog struct {
	Flows map[string]FlowPricing `yaml:"flows"`
}

// DefaultCatalog parses the embedded price tables. The embedded file is
// covered by tests, so a parse failure is a build defect.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes a price-table document.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Flows) == 0 {
		return Catalog{}, fmt.Errorf("parse catalog: no flows defined")
	}
	return c, nil
}

// LoadCatalog reads a price-table file, e.g. a lab-specific override of
// the embedded defaults.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Price computes the derived price for one flow: base plus the per-option
// increment for every selected option. Pure: toggling an option on and
// off returns the price to its original value.
func (c Catalog) Price(flowName string, state State) float64 {
	pricing, ok := c.Flows[flowName]
	if !ok {
		return 0
	}
	total := pricing.Base
	for field, increment := range pricing.OptionFields {
		total += float64(len(state.Strs(field))) * increment
	}
	return total
}
