// Package catalogtest provides an in-memory catalog store for tests.
package catalogtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/de-tools/takeoff/pkg/store/seed"
	"github.com/shopspring/decimal"
)

type Store struct {
	CompositionRows []store.CompositionItemRow
	PartitionRates  []store.PartitionRateRow
	Products        []store.VentilationProductRow
	Err             error

	mu    sync.Mutex
	calls map[string]int
}

func (s *Store) ListCompositionItems(_ context.Context, proposalType string) ([]store.CompositionItemRow, error) {
	s.record("ListCompositionItems")
	if s.Err != nil {
		return nil, s.Err
	}
	var out []store.CompositionItemRow
	for _, r := range s.CompositionRows {
		if r.ProposalType == proposalType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListProposalTypes(_ context.Context) ([]string, error) {
	s.record("ListProposalTypes")
	if s.Err != nil {
		return nil, s.Err
	}
	seen := make(map[string]struct{})
	var types []string
	for _, r := range s.CompositionRows {
		if _, ok := seen[r.ProposalType]; !ok {
			seen[r.ProposalType] = struct{}{}
			types = append(types, r.ProposalType)
		}
	}
	sort.Strings(types)
	return types, nil
}

func (s *Store) ListPartitionRates(_ context.Context, partitionType string) ([]store.PartitionRateRow, error) {
	s.record("ListPartitionRates")
	if s.Err != nil {
		return nil, s.Err
	}
	var out []store.PartitionRateRow
	for _, r := range s.PartitionRates {
		if r.PartitionType == partitionType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListVentilationProducts(_ context.Context) ([]store.VentilationProductRow, error) {
	s.record("ListVentilationProducts")
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]store.VentilationProductRow(nil), s.Products...), nil
}

// Calls returns how many times a store method was invoked.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Store) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[method]++
}

// FromSeed converts a seed catalog into rows, skipping inactive entries the
// same way the SQL store does.
func FromSeed(c *seed.Catalog) *Store {
	s := &Store{}
	for _, comp := range c.Compositions {
		if comp.Active != nil && !*comp.Active {
			continue
		}
		var waste sql.NullFloat64
		if comp.WastePercent != nil {
			waste = sql.NullFloat64{Float64: *comp.WastePercent, Valid: true}
		}
		scope := comp.Scope
		if scope == "" {
			scope = "area"
		}
		for _, item := range comp.Items {
			if item.Active != nil && !*item.Active {
				continue
			}
			s.CompositionRows = append(s.CompositionRows, store.CompositionItemRow{
				CompositionID:       comp.ID,
				CompositionCode:     comp.Code,
				CompositionName:     comp.Name,
				Category:            comp.Category,
				ProposalType:        comp.ProposalType,
				CompositionOrder:    comp.Order,
				CompositionRequired: comp.Mandatory,
				ReferenceValue:      decimal.NewFromFloat(comp.ReferenceValue),
				WastePercent:        waste,
				Scope:               scope,
				ItemID:              item.ID,
				ItemCode:            item.Code,
				Description:         item.Description,
				Unit:                item.Unit,
				ConsumptionRate:     item.ConsumptionRate,
				UnitPrice:           decimal.NewFromFloat(item.UnitPrice),
				ItemOrder:           item.Order,
				ItemRequired:        item.Mandatory,
				WeightPerUnit:       item.WeightPerUnit,
			})
		}
	}
	for _, r := range c.PartitionRates {
		if r.Active != nil && !*r.Active {
			continue
		}
		var thickness sql.NullInt64
		if r.InsulationThickness != nil {
			thickness = sql.NullInt64{Int64: *r.InsulationThickness, Valid: true}
		}
		s.PartitionRates = append(s.PartitionRates, store.PartitionRateRow{
			ID:                  r.ID,
			PartitionType:       r.PartitionType,
			Category:            r.Category,
			Code:                r.Code,
			Description:         r.Description,
			Unit:                r.Unit,
			Basis:               r.Basis,
			ConsumptionRate:     r.ConsumptionRate,
			UnitPrice:           decimal.NewFromFloat(r.UnitPrice),
			WastePercent:        r.WastePercent,
			WeightPerUnit:       r.WeightPerUnit,
			Order:               r.Order,
			InsulationThickness: thickness,
		})
	}
	for _, p := range c.VentilationProducts {
		if p.Active != nil && !*p.Active {
			continue
		}
		s.Products = append(s.Products, store.VentilationProductRow{
			ID:          p.ID,
			Code:        p.Code,
			Name:        p.Name,
			NFVAPerUnit: p.NFVAPerUnit,
			Unit:        p.Unit,
			Side:        p.Side,
			Linear:      p.Linear,
			UnitPrice:   decimal.NewFromFloat(p.UnitPrice),
		})
	}
	return s
}

// ReferenceCatalogPath locates configs/catalog.yaml from any package.
func ReferenceCatalogPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "configs", "catalog.yaml")
}

// Reference loads the repository's reference catalog.
func Reference() (*Store, error) {
	c, err := seed.Load(ReferenceCatalogPath())
	if err != nil {
		return nil, err
	}
	return FromSeed(c), nil
}
