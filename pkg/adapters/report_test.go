package adapters

import (
	"testing"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCalculationToReport_GroupsByCategory(t *testing.T) {
	calc := domain.Calculation{
		ProposalType: domain.ProposalTypeCeiling,
		Items: []domain.LineItem{
			{ItemCode: "FOR-ST", Category: "FORRO", CommercialQuantity: 36, CommercialUnit: "pc", UnitPrice: decimal.NewFromInt(1), ExtendedPrice: decimal.NewFromInt(36)},
			{ItemCode: "TAB-3M", Category: "ARREMATE", CommercialQuantity: 10, CommercialUnit: "br", UnitPrice: decimal.NewFromInt(1), ExtendedPrice: decimal.NewFromInt(10)},
			{ItemCode: "FOR-F530", Category: "FORRO", CommercialQuantity: 80, CommercialUnit: "br", UnitPrice: decimal.NewFromInt(1), ExtendedPrice: decimal.NewFromInt(80)},
		},
		Rollup: domain.Rollup{
			TotalPrice:   decimal.NewFromInt(126),
			ValuePerUnit: decimal.RequireFromString("1.26"),
			NetMeasure:   100,
			CategoryTotals: map[domain.Category]decimal.Decimal{
				"FORRO":    decimal.NewFromInt(116),
				"ARREMATE": decimal.NewFromInt(10),
			},
		},
	}

	report := MapCalculationToReport(calc)
	assert.Equal(t, "forro", report.Subject)
	assert.Equal(t, ReportCurrency, report.Currency)
	assert.Len(t, report.Items, 3)
	require.Len(t, report.Sections, 3)

	assert.Equal(t, "Summary", report.Sections[0].Title)
	assert.Equal(t, "1.26", report.Sections[0].Summary["Value per m²"])

	forro := report.Sections[1]
	assert.Equal(t, "FORRO", forro.Title)
	assert.Equal(t, "116.00", forro.Summary["Subtotal"])
	require.Len(t, forro.Details, 2)
	assert.Equal(t, 80.0, forro.Details[1].Value)
	assert.Equal(t, "ARREMATE", report.Sections[2].Title)
}

func TestMapSelfCheckReportToReport(t *testing.T) {
	r := domain.SelfCheckReport{
		PartitionType: "ST-70",
		Takeoff:       domain.PartitionTakeoff{Input: domain.PartitionInput{PartitionType: "ST-70"}},
		HasGuide:      true,
		HasStud:       false,
		PricePerArea:  decimal.RequireFromString("109.04"),
		BandMin:       decimal.NewFromInt(60),
		BandMax:       decimal.NewFromInt(250),
		WithinBand:    true,
		Findings:      []string{"no stud item in ESTRUTURA"},
	}

	report := MapSelfCheckReportToReport(r)
	assert.Equal(t, "Partition self-check", report.Title)
	last := report.Sections[len(report.Sections)-1]
	assert.Equal(t, "Self-check", last.Title)
	assert.Equal(t, false, last.Summary["Passed"])
	assert.Equal(t, "[60.00, 250.00]", last.Summary["Band"])
	require.Len(t, last.Details, 1)
	assert.Equal(t, "no stud item in ESTRUTURA", last.Details[0].Value)
}

func TestMapVentilationResultToReport(t *testing.T) {
	result := domain.VentilationResult{
		EffectiveRatio: 150,
		Intake: domain.VentilationSide{
			Side:     domain.VentSideIntake,
			Product:  &domain.VentilationProduct{ID: "v-soffit", Code: "GR-BEIRAL", NFVAPerUnit: 0.0065, Unit: "un", UnitPrice: decimal.RequireFromString("18.50")},
			Quantity: 52,
		},
		Exhaust: domain.VentilationSide{Side: domain.VentSideExhaust},
		Alerts: []domain.Alert{
			{Code: domain.AlertNoProduct, Severity: domain.SeverityInfo, Side: domain.VentSideExhaust, Message: "no exhaust product selected"},
		},
	}

	report := MapVentilationResultToReport(result)
	assert.Equal(t, "1/150", report.Subject)
	assert.Equal(t, "962.00", report.TotalAmount.StringFixed(2))
	require.Len(t, report.Sections, 4)
	assert.Len(t, report.Sections[1].Details, 1)
	assert.Empty(t, report.Sections[2].Details)
	assert.Equal(t, "V1002", report.Sections[3].Details[0].Name)
}

func TestMapAvailabilityToReport(t *testing.T) {
	types := []domain.ProposalType{domain.ProposalTypeCeiling, "steel_frame"}
	report := MapAvailabilityToReport(types, map[domain.ProposalType]bool{domain.ProposalTypeCeiling: true})

	require.Len(t, report.Sections, 1)
	assert.Equal(t, 1, report.Sections[0].Summary["Available"])
	assert.Equal(t, []domain.ReportDetail{
		{Name: "forro", Value: true},
		{Name: "steel_frame", Value: false},
	}, report.Sections[0].Details)
}

func TestMapVentilationProductsToReport(t *testing.T) {
	report := MapVentilationProductsToReport([]domain.VentilationProduct{
		{ID: "v-ridge", Code: "CUM-VENT", Name: "Cumeeira ventilada", NFVAPerUnit: 0.0144, Unit: "m", Side: domain.VentSideExhaust, Linear: true, UnitPrice: decimal.RequireFromString("79.90")},
	})
	d := report.Sections[0].Details[0]
	assert.Equal(t, "79.90", d.Value)
	assert.Equal(t, "exhaust linear, 0.0144 m² NFVA per m", d.Description)
}
