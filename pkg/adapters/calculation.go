package adapters

import (
	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/shopspring/decimal"
)

func MapDomainLineItemToApi(item domain.LineItem) api.LineItem {
	return api.LineItem{
		ID:                    item.ID,
		CompositionID:         item.CompositionID,
		CompositionCode:       item.CompositionCode,
		ItemID:                item.ItemID,
		ItemCode:              item.ItemCode,
		Description:           item.Description,
		Category:              string(item.Category),
		NetQuantity:           item.NetQuantity,
		WasteAdjustedQuantity: item.WasteAdjustedQuantity,
		CommercialQuantity:    item.CommercialQuantity,
		CommercialUnit:        item.CommercialUnit,
		UnitPrice:             item.UnitPrice,
		ExtendedPrice:         item.ExtendedPrice,
		Weight:                item.Weight,
		Order:                 item.Order,
		Notes:                 item.Notes,
	}
}

func MapDomainLineItemsToApi(items []domain.LineItem) []api.LineItem {
	out := make([]api.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, MapDomainLineItemToApi(item))
	}
	return out
}

func MapDomainRollupToApi(rollup domain.Rollup) api.Rollup {
	totals := make(map[string]decimal.Decimal, len(rollup.CategoryTotals))
	for category, total := range rollup.CategoryTotals {
		totals[string(category)] = total
	}
	return api.Rollup{
		TotalPrice:     rollup.TotalPrice,
		ValuePerUnit:   rollup.ValuePerUnit,
		TotalWeight:    rollup.TotalWeight,
		NetMeasure:     rollup.NetMeasure,
		GrossMeasure:   rollup.GrossMeasure,
		CategoryTotals: totals,
	}
}

func MapDomainCalculationToApi(calc domain.Calculation) api.Calculation {
	return api.Calculation{
		ProposalType: string(calc.ProposalType),
		Items:        MapDomainLineItemsToApi(calc.Items),
		Rollup:       MapDomainRollupToApi(calc.Rollup),
	}
}
