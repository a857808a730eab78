package adapters

import (
	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/quantity"
	"github.com/shopspring/decimal"
)

const defaultIntakePercent = 50

func MapApiVentilationRequestToDomain(req api.VentilationRequest) domain.VentilationInput {
	intake := float64(defaultIntakePercent)
	if req.IntakePercent != nil {
		intake = *req.IntakePercent
	}
	return domain.VentilationInput{
		Length:             req.Length,
		Width:              req.Width,
		RequestedRatio:     req.Ratio,
		RegionalAdjustment: req.RegionalAdjustment,
		IntakePercent:      intake,
		IntakeProductID:    req.IntakeProductID,
		ExhaustProductID:   req.ExhaustProductID,
		IntakeLinearRun:    req.IntakeLinearRun,
		ExhaustLinearRun:   req.ExhaustLinearRun,
	}
}

func MapDomainVentilationProductToApi(p domain.VentilationProduct) api.VentilationProduct {
	return api.VentilationProduct{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		NFVAPerUnit: p.NFVAPerUnit,
		Unit:        p.Unit,
		Side:        string(p.Side),
		Linear:      p.Linear,
		UnitPrice:   p.UnitPrice,
	}
}

func MapDomainAlertToApi(a domain.Alert) api.Alert {
	return api.Alert{
		Code:     string(a.Code),
		Severity: a.Severity.String(),
		Side:     string(a.Side),
		Message:  a.Message,
	}
}

func mapVentilationSide(s domain.VentilationSide) api.VentilationSide {
	side := api.VentilationSide{
		RequiredNFVA:   s.RequiredNFVA,
		RequiredLength: s.RequiredLength,
		Quantity:       s.Quantity,
	}
	if s.Product != nil {
		p := MapDomainVentilationProductToApi(*s.Product)
		side.Product = &p
	}
	return side
}

func MapDomainVentilationResultToApi(r domain.VentilationResult) api.VentilationResult {
	alerts := make([]api.Alert, 0, len(r.Alerts))
	for _, a := range r.Alerts {
		alerts = append(alerts, MapDomainAlertToApi(a))
	}
	items := VentilationLineItems(r)
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ExtendedPrice)
	}
	return api.VentilationResult{
		AtticArea:       r.AtticArea,
		EffectiveRatio:  r.EffectiveRatio,
		NFVATotal:       r.NFVATotal,
		NFVAIntake:      r.NFVAIntake,
		NFVAExhaust:     r.NFVAExhaust,
		QuantityIntake:  r.QuantityIntake,
		QuantityExhaust: r.QuantityExhaust,
		Intake:          mapVentilationSide(r.Intake),
		Exhaust:         mapVentilationSide(r.Exhaust),
		Alerts:          alerts,
		Items:           MapDomainLineItemsToApi(items),
		TotalPrice:      total,
	}
}

// VentilationLineItems prices the selected products as unit price times
// quantity. Sides without a product or with zero quantity are omitted.
func VentilationLineItems(r domain.VentilationResult) []domain.LineItem {
	var items []domain.LineItem
	for _, side := range []domain.VentilationSide{r.Intake, r.Exhaust} {
		if side.Product == nil || side.Quantity == 0 {
			continue
		}
		p := side.Product
		units := side.RequiredLength
		if !p.Linear {
			units = quantity.Round(side.RequiredNFVA / p.NFVAPerUnit)
		}
		qty := float64(side.Quantity)
		items = append(items, domain.LineItem{
			ID:                    quantity.LineID("ventilation", string(side.Side), p.ID),
			ItemID:                p.ID,
			ItemCode:              p.Code,
			Description:           p.Name,
			Category:              domain.CategoryVentilation,
			NetQuantity:           units,
			WasteAdjustedQuantity: units,
			CommercialQuantity:    qty,
			CommercialUnit:        p.Unit,
			UnitPrice:             p.UnitPrice,
			ExtendedPrice:         p.UnitPrice.Mul(decimal.NewFromFloat(qty)).Round(2),
			Order:                 len(items) + 1,
			Notes:                 string(side.Side),
		})
	}
	return items
}
