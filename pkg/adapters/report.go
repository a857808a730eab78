package adapters

import (
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const ReportCurrency = "BRL"

func MapCalculationToReport(calc domain.Calculation) *domain.Report {
	report := &domain.Report{
		Title:       "Material takeoff",
		Subject:     string(calc.ProposalType),
		Items:       calc.Items,
		TotalAmount: calc.Rollup.TotalPrice,
		Currency:    ReportCurrency,
	}
	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Summary",
		Summary: map[string]interface{}{
			"Base area (m²)":    calc.Rollup.NetMeasure,
			"Total weight (kg)": calc.Rollup.TotalWeight,
			"Value per m²":      calc.Rollup.ValuePerUnit.StringFixed(2),
			"Line items":        len(calc.Items),
		},
	})
	report.Sections = append(report.Sections, categorySections(calc.Items, calc.Rollup.CategoryTotals)...)
	return report
}

func MapPartitionTakeoffToReport(t domain.PartitionTakeoff) *domain.Report {
	g := t.Geometry
	report := &domain.Report{
		Title:       "Partition takeoff",
		Subject:     t.Input.PartitionType,
		Items:       t.Items,
		TotalAmount: t.Rollup.TotalPrice,
		Currency:    ReportCurrency,
	}
	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Geometry",
		Summary: map[string]interface{}{
			"Total weight (kg)": t.Rollup.TotalWeight,
			"Value per m²":      t.Rollup.ValuePerUnit.StringFixed(2),
		},
		Details: []domain.ReportDetail{
			{Name: "Gross area", Value: g.GrossArea, Unit: "m²", Description: fmt.Sprintf("%.2f x %.2f", t.Input.Width, t.Input.Height)},
			{Name: "Opening area", Value: g.OpeningArea, Unit: "m²"},
			{Name: "Net area", Value: g.NetArea, Unit: "m²"},
			{Name: "Guide length", Value: g.GuideLength, Unit: "m"},
			{Name: "Studs", Value: g.StudCount, Unit: "un", Description: fmt.Sprintf("spacing %.2f m", t.Input.StudSpacing)},
			{Name: "Stud length", Value: g.StudLength, Unit: "m"},
			{Name: "Perimeter", Value: g.Perimeter, Unit: "m"},
			{Name: "Opening perimeter", Value: g.OpeningPerimeter, Unit: "m"},
		},
	})
	report.Sections = append(report.Sections, categorySections(t.Items, t.Rollup.CategoryTotals)...)
	return report
}

func MapSelfCheckReportToReport(r domain.SelfCheckReport) *domain.Report {
	report := MapPartitionTakeoffToReport(r.Takeoff)
	report.Title = "Partition self-check"

	details := make([]domain.ReportDetail, 0, len(r.Findings))
	for _, f := range r.Findings {
		details = append(details, domain.ReportDetail{Name: "Finding", Value: f})
	}
	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Self-check",
		Summary: map[string]interface{}{
			"Passed":       r.Passed(),
			"Within band":  r.WithinBand,
			"Price per m²": r.PricePerArea.StringFixed(2),
			"Band":         fmt.Sprintf("[%s, %s]", r.BandMin.StringFixed(2), r.BandMax.StringFixed(2)),
		},
		Details: details,
	})
	return report
}

func MapVentilationResultToReport(r domain.VentilationResult) *domain.Report {
	items := VentilationLineItems(r)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ExtendedPrice)
	}

	report := &domain.Report{
		Title:       "Attic ventilation sizing",
		Subject:     fmt.Sprintf("1/%.0f", r.EffectiveRatio),
		Items:       items,
		TotalAmount: total,
		Currency:    ReportCurrency,
	}
	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Requirement",
		Summary: map[string]interface{}{
			"Attic area (m²)":   r.AtticArea,
			"Effective ratio":   r.EffectiveRatio,
			"Total NFVA (m²)":   r.NFVATotal,
			"Intake NFVA (m²)":  r.NFVAIntake,
			"Exhaust NFVA (m²)": r.NFVAExhaust,
		},
	})
	for _, side := range []domain.VentilationSide{r.Intake, r.Exhaust} {
		report.Sections = append(report.Sections, ventilationSideSection(side))
	}
	if len(r.Alerts) > 0 {
		details := make([]domain.ReportDetail, 0, len(r.Alerts))
		for _, a := range r.Alerts {
			details = append(details, domain.ReportDetail{
				Name:        string(a.Code),
				Value:       a.Severity.String(),
				Unit:        string(a.Side),
				Description: a.Message,
			})
		}
		report.Sections = append(report.Sections, domain.ReportSection{Title: "Alerts", Details: details})
	}
	return report
}

func ventilationSideSection(s domain.VentilationSide) domain.ReportSection {
	section := domain.ReportSection{
		Title: "Ventilation " + string(s.Side),
		Summary: map[string]interface{}{
			"Required NFVA (m²)": s.RequiredNFVA,
		},
	}
	if s.Product == nil {
		return section
	}
	detail := domain.ReportDetail{
		Name:        s.Product.Code + " " + s.Product.Name,
		Value:       s.Quantity,
		Unit:        s.Product.Unit,
		Description: fmt.Sprintf("%.4f m² NFVA per %s", s.Product.NFVAPerUnit, s.Product.Unit),
	}
	if s.Product.Linear {
		detail.Description += fmt.Sprintf(", %.2f m required", s.RequiredLength)
	}
	section.Details = []domain.ReportDetail{detail}
	return section
}

// categorySections groups items by category in first-appearance order.
func categorySections(items []domain.LineItem, totals map[domain.Category]decimal.Decimal) []domain.ReportSection {
	var sections []domain.ReportSection
	index := map[domain.Category]int{}
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(sections)
			index[it.Category] = i
			sections = append(sections, domain.ReportSection{
				Title: string(it.Category),
				Summary: map[string]interface{}{
					"Subtotal": totals[it.Category].StringFixed(2),
				},
			})
		}
		sections[i].Details = append(sections[i].Details, domain.ReportDetail{
			Name:  it.ItemCode + " " + it.Description,
			Value: it.CommercialQuantity,
			Unit:  it.CommercialUnit,
			Description: fmt.Sprintf("net %.3f, with waste %.3f, unit %s, total %s",
				it.NetQuantity, it.WasteAdjustedQuantity,
				it.UnitPrice.StringFixed(2), it.ExtendedPrice.StringFixed(2)),
		})
	}
	return sections
}

// MapAvailabilityToReport lists each proposal type with its availability in
// the given order.
func MapAvailabilityToReport(types []domain.ProposalType, available map[domain.ProposalType]bool) *domain.Report {
	details := make([]domain.ReportDetail, 0, len(types))
	count := 0
	for _, t := range types {
		ok := available[t]
		if ok {
			count++
		}
		details = append(details, domain.ReportDetail{Name: string(t), Value: ok})
	}
	return &domain.Report{
		Title:       "Proposal type availability",
		TotalAmount: decimal.Zero,
		Currency:    ReportCurrency,
		Sections: []domain.ReportSection{{
			Title:   "Proposal types",
			Summary: map[string]interface{}{"Available": count},
			Details: details,
		}},
	}
}

func MapVentilationProductsToReport(products []domain.VentilationProduct) *domain.Report {
	details := make([]domain.ReportDetail, 0, len(products))
	for _, p := range products {
		kind := "discrete"
		if p.Linear {
			kind = "linear"
		}
		details = append(details, domain.ReportDetail{
			Name:  p.ID + " " + p.Code + " " + p.Name,
			Value: p.UnitPrice.StringFixed(2),
			Unit:  p.Unit,
			Description: fmt.Sprintf("%s %s, %.4f m² NFVA per %s",
				p.Side, kind, p.NFVAPerUnit, p.Unit),
		})
	}
	return &domain.Report{
		Title:       "Ventilation products",
		TotalAmount: decimal.Zero,
		Currency:    ReportCurrency,
		Sections:    []domain.ReportSection{{Title: "Products", Details: details}},
	}
}
