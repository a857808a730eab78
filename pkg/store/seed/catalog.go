// Package seed loads catalog fixtures from YAML and writes them into a
// catalog database.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Catalog struct {
	Compositions        []Composition        `yaml:"compositions"`
	PartitionRates      []PartitionRate      `yaml:"partition_rates"`
	VentilationProducts []VentilationProduct `yaml:"ventilation_products"`
}

type Composition struct {
	ID             string   `yaml:"id"`
	Code           string   `yaml:"code"`
	Name           string   `yaml:"name"`
	Category       string   `yaml:"category"`
	ProposalType   string   `yaml:"proposal_type"`
	Order          int      `yaml:"order"`
	Mandatory      bool     `yaml:"mandatory"`
	Active         *bool    `yaml:"active"`
	ReferenceValue float64  `yaml:"reference_value"`
	WastePercent   *float64 `yaml:"waste_percent"`
	Scope          string   `yaml:"scope"`
	Items          []Item   `yaml:"items"`
}

type Item struct {
	ID              string  `yaml:"id"`
	Code            string  `yaml:"code"`
	Description     string  `yaml:"description"`
	Unit            string  `yaml:"unit"`
	ConsumptionRate float64 `yaml:"consumption_rate"`
	UnitPrice       float64 `yaml:"unit_price"`
	Order           int     `yaml:"order"`
	Mandatory       bool    `yaml:"mandatory"`
	Active          *bool   `yaml:"active"`
	WeightPerUnit   float64 `yaml:"weight_per_unit"`
}

type PartitionRate struct {
	ID                  string  `yaml:"id"`
	PartitionType       string  `yaml:"partition_type"`
	Category            string  `yaml:"category"`
	Code                string  `yaml:"code"`
	Description         string  `yaml:"description"`
	Unit                string  `yaml:"unit"`
	Basis               string  `yaml:"basis"`
	ConsumptionRate     float64 `yaml:"consumption_rate"`
	UnitPrice           float64 `yaml:"unit_price"`
	WastePercent        float64 `yaml:"waste_percent"`
	WeightPerUnit       float64 `yaml:"weight_per_unit"`
	Order               int     `yaml:"order"`
	InsulationThickness *int64  `yaml:"insulation_thickness_mm"`
	Active              *bool   `yaml:"active"`
}

type VentilationProduct struct {
	ID          string  `yaml:"id"`
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	NFVAPerUnit float64 `yaml:"nfva_per_unit"`
	Unit        string  `yaml:"unit"`
	Side        string  `yaml:"side"`
	Linear      bool    `yaml:"linear"`
	UnitPrice   float64 `yaml:"unit_price"`
	Active      *bool   `yaml:"active"`
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{})
	for _, comp := range c.Compositions {
		if comp.ID == "" || comp.ProposalType == "" {
			return fmt.Errorf("composition %q: id and proposal_type are required", comp.Code)
		}
		if _, dup := seen[comp.ID]; dup {
			return fmt.Errorf("duplicate composition id %q", comp.ID)
		}
		seen[comp.ID] = struct{}{}
		for _, item := range comp.Items {
			if item.ID == "" {
				return fmt.Errorf("composition %q: item %q has no id", comp.ID, item.Code)
			}
		}
	}
	for _, r := range c.PartitionRates {
		if r.ID == "" || r.PartitionType == "" || r.Basis == "" {
			return fmt.Errorf("partition rate %q: id, partition_type and basis are required", r.Code)
		}
	}
	for _, p := range c.VentilationProducts {
		if p.Side != "intake" && p.Side != "exhaust" {
			return fmt.Errorf("ventilation product %q: side must be intake or exhaust", p.ID)
		}
	}
	return nil
}

func isActive(flag *bool) bool {
	return flag == nil || *flag
}
