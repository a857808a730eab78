package adapters

import (
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/models/store"
)

// MapStoreCompositionRowsToDomain groups joined composition/item rows into
// catalog entries, keeping the order in which compositions first appear.
func MapStoreCompositionRowsToDomain(rows []store.CompositionItemRow) []domain.CatalogEntry {
	var entries []domain.CatalogEntry
	index := make(map[string]int)

	for _, row := range rows {
		pos, ok := index[row.CompositionID]
		if !ok {
			var waste *float64
			if row.WastePercent.Valid {
				w := row.WastePercent.Float64
				waste = &w
			}
			entries = append(entries, domain.CatalogEntry{
				Composition: domain.Composition{
					ID:             row.CompositionID,
					Code:           row.CompositionCode,
					Name:           row.CompositionName,
					Category:       domain.Category(row.Category),
					ProposalType:   domain.ProposalType(row.ProposalType),
					Order:          row.CompositionOrder,
					Mandatory:      row.CompositionRequired,
					ReferenceValue: row.ReferenceValue,
					WastePercent:   waste,
					Scope:          domain.Scope(row.Scope),
				},
			})
			pos = len(entries) - 1
			index[row.CompositionID] = pos
		}

		entries[pos].Items = append(entries[pos].Items, domain.CompositionItem{
			ID:              row.ItemID,
			CompositionID:   row.CompositionID,
			Code:            row.ItemCode,
			Description:     row.Description,
			Unit:            row.Unit,
			ConsumptionRate: row.ConsumptionRate,
			UnitPrice:       row.UnitPrice,
			Order:           row.ItemOrder,
			Mandatory:       row.ItemRequired,
			WeightPerUnit:   row.WeightPerUnit,
		})
	}

	return entries
}

func MapStorePartitionRateToDomain(row store.PartitionRateRow) domain.PartitionRate {
	rate := domain.PartitionRate{
		ID:              row.ID,
		PartitionType:   row.PartitionType,
		Category:        domain.Category(row.Category),
		Code:            row.Code,
		Description:     row.Description,
		Unit:            row.Unit,
		Basis:           domain.RateBasis(row.Basis),
		ConsumptionRate: row.ConsumptionRate,
		UnitPrice:       row.UnitPrice,
		WastePercent:    row.WastePercent,
		WeightPerUnit:   row.WeightPerUnit,
		Order:           row.Order,
	}
	if row.InsulationThickness.Valid {
		rate.InsulationThickness = int(row.InsulationThickness.Int64)
	}
	return rate
}

func MapStoreVentilationProductToDomain(row store.VentilationProductRow) domain.VentilationProduct {
	return domain.VentilationProduct{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		NFVAPerUnit: row.NFVAPerUnit,
		Unit:        row.Unit,
		Side:        domain.VentSide(row.Side),
		Linear:      row.Linear,
		UnitPrice:   row.UnitPrice,
	}
}
