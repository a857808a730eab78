package adapters

import (
	"database/sql"
	"testing"

	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStoreCompositionRowsToDomain(t *testing.T) {
	rows := []store.CompositionItemRow{
		{CompositionID: "c2", CompositionCode: "B", ItemID: "i3", ItemCode: "X3", WastePercent: sql.NullFloat64{Float64: 5, Valid: true}},
		{CompositionID: "c1", CompositionCode: "A", ItemID: "i1", ItemCode: "X1", Scope: "ridge", CompositionRequired: true},
		{CompositionID: "c2", CompositionCode: "B", ItemID: "i4", ItemCode: "X4", WastePercent: sql.NullFloat64{Float64: 5, Valid: true}},
	}

	entries := MapStoreCompositionRowsToDomain(rows)
	require.Len(t, entries, 2)

	assert.Equal(t, "c2", entries[0].Composition.ID)
	require.NotNil(t, entries[0].Composition.WastePercent)
	assert.Equal(t, 5.0, *entries[0].Composition.WastePercent)
	require.Len(t, entries[0].Items, 2)
	assert.Equal(t, "c2", entries[0].Items[1].CompositionID)

	assert.Nil(t, entries[1].Composition.WastePercent)
	assert.Equal(t, domain.ScopeRidge, entries[1].Composition.Scope)
	assert.True(t, entries[1].Composition.Mandatory)
}

func TestMapStorePartitionRateToDomain(t *testing.T) {
	rate := MapStorePartitionRateToDomain(store.PartitionRateRow{
		ID: "r1", Category: "ISOLAMENTO", Basis: "net_area", InsulationThickness: sql.NullInt64{Int64: 75, Valid: true},
	})
	assert.Equal(t, domain.CategoryInsulation, rate.Category)
	assert.Equal(t, domain.BasisNetArea, rate.Basis)
	assert.Equal(t, 75, rate.InsulationThickness)

	assert.Zero(t, MapStorePartitionRateToDomain(store.PartitionRateRow{}).InsulationThickness)
}

func TestMapApiPartitionRequestToDomain(t *testing.T) {
	waste := 12.0
	input := MapApiPartitionRequestToDomain(api.PartitionRequest{
		PartitionType: "ST-70",
		Width:         4,
		Height:        2.7,
		Doors:         &api.Opening{Count: 2},
		WastePercent:  &waste,
	})

	assert.Equal(t, domain.Opening{Count: 2}, input.Doors)
	assert.Equal(t, domain.Opening{}, input.Windows)
	assert.Equal(t, &waste, input.WasteOverride)
}

func TestMapApiVentilationRequestToDomain(t *testing.T) {
	assert.Equal(t, 50.0, MapApiVentilationRequestToDomain(api.VentilationRequest{}).IntakePercent)

	zero := 0.0
	assert.Equal(t, 0.0, MapApiVentilationRequestToDomain(api.VentilationRequest{IntakePercent: &zero}).IntakePercent)

	input := MapApiVentilationRequestToDomain(api.VentilationRequest{ExhaustLinearRun: &zero})
	assert.Nil(t, input.IntakeLinearRun)
	require.NotNil(t, input.ExhaustLinearRun)
	assert.Equal(t, 0.0, *input.ExhaustLinearRun)
}

func TestVentilationLineItems(t *testing.T) {
	result := domain.VentilationResult{
		Intake: domain.VentilationSide{
			Side:         domain.VentSideIntake,
			RequiredNFVA: 0.333333,
			Product:      &domain.VentilationProduct{ID: "v-soffit", Code: "GR-BEIRAL", NFVAPerUnit: 0.0065, Unit: "un", UnitPrice: decimal.RequireFromString("18.50")},
			Quantity:     52,
		},
		Exhaust: domain.VentilationSide{
			Side:           domain.VentSideExhaust,
			RequiredNFVA:   0.333333,
			Product:        &domain.VentilationProduct{ID: "v-ridge", Code: "CUM-VENT", NFVAPerUnit: 0.0144, Unit: "m", Linear: true, UnitPrice: decimal.RequireFromString("79.90")},
			RequiredLength: 23.148125,
			Quantity:       24,
		},
	}

	items := VentilationLineItems(result)
	require.Len(t, items, 2)
	assert.Equal(t, "962.00", items[0].ExtendedPrice.StringFixed(2))
	assert.Equal(t, 52.0, items[0].CommercialQuantity)
	assert.Equal(t, "1917.60", items[1].ExtendedPrice.StringFixed(2))
	assert.Equal(t, 23.148125, items[1].NetQuantity)
	assert.Equal(t, domain.CategoryVentilation, items[1].Category)

	mapped := MapDomainVentilationResultToApi(result)
	assert.Equal(t, "2879.60", mapped.TotalPrice.StringFixed(2))
	assert.Len(t, mapped.Items, 2)
	assert.NotNil(t, mapped.Alerts)
	require.NotNil(t, mapped.Exhaust.Product)
	assert.True(t, mapped.Exhaust.Product.Linear)
}

func TestVentilationLineItems_NoProducts(t *testing.T) {
	assert.Empty(t, VentilationLineItems(domain.VentilationResult{}))
	mapped := MapDomainVentilationResultToApi(domain.VentilationResult{})
	assert.True(t, mapped.TotalPrice.IsZero())
	assert.Nil(t, mapped.Intake.Product)
}

func TestMapDomainRollupToApi(t *testing.T) {
	rollup := MapDomainRollupToApi(domain.Rollup{
		TotalPrice: decimal.NewFromInt(10),
		CategoryTotals: map[domain.Category]decimal.Decimal{
			domain.CategoryBoard: decimal.NewFromInt(10),
		},
	})
	assert.True(t, decimal.NewFromInt(10).Equal(rollup.CategoryTotals["VEDAÇÃO"]))
}

func TestMapDomainAlertToApi(t *testing.T) {
	a := MapDomainAlertToApi(domain.Alert{Code: domain.AlertCapacityExceeded, Severity: domain.SeverityBlocking, Side: domain.VentSideExhaust, Message: "m"})
	assert.Equal(t, api.Alert{Code: "V3001", Severity: "blocking", Side: "exhaust", Message: "m"}, a)
}
