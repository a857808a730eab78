// Package quantity implements the net → waste-adjusted → commercial → priced
// pipeline shared by every calculator, and the rollup over its line items.
package quantity

import (
	"math"
	"strings"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quantities are kept to six decimals so that equal inputs produce equal
// output on every platform.
const precision = 1e6

const (
	// MaxMeasure bounds every length or area a calculator accepts.
	MaxMeasure = 1e7
	// MaxQuantity bounds the waste-adjusted quantity of a single line.
	MaxQuantity = 1e12
)

var lineNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://takeoff.de-tools.dev/line-items"))

func Round(x float64) float64 {
	return math.Round(x*precision) / precision
}

// CheckMeasure rejects NaN, infinities and values beyond MaxMeasure. The sign
// is left to the caller.
func CheckMeasure(op, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxMeasure {
		return domain.InvalidInput(op, "%s must be a finite value up to %g, got %g", name, float64(MaxMeasure), v)
	}
	return nil
}

// CheckLine rejects a line whose waste-adjusted quantity is not finite or
// exceeds MaxQuantity, before Apply would round or price it.
func CheckLine(op, code string, net, wastePercent float64) error {
	gross := net * (1 + wastePercent/100)
	if math.IsNaN(gross) || math.IsInf(gross, 0) || math.Abs(gross) > MaxQuantity {
		return domain.InvalidInput(op, "quantity of %s is out of range (net %g, waste %g%%)", code, net, wastePercent)
	}
	return nil
}

// Apply fills the quantity, price and weight fields of item. UnitPrice must be
// set beforehand; wastePercent must not be negative and the line must pass
// CheckLine.
func Apply(item *domain.LineItem, net, wastePercent, weightPerUnit float64) {
	item.NetQuantity = Round(net)
	item.WasteAdjustedQuantity = Round(item.NetQuantity * (1 + wastePercent/100))
	if item.WasteAdjustedQuantity < item.NetQuantity {
		item.WasteAdjustedQuantity = item.NetQuantity
	}
	item.CommercialQuantity = math.Ceil(item.WasteAdjustedQuantity)
	item.ExtendedPrice = decimal.NewFromFloat(item.WasteAdjustedQuantity).Mul(item.UnitPrice).Round(2)
	item.Weight = math.Round(item.CommercialQuantity*weightPerUnit*1000) / 1000
}

// Summarize rolls items up. ValuePerUnit divides the total by perUnit; a
// non-positive perUnit leaves it at zero.
func Summarize(items []domain.LineItem, perUnit, net, gross float64) domain.Rollup {
	rollup := domain.Rollup{
		TotalPrice:     decimal.Zero,
		ValuePerUnit:   decimal.Zero,
		NetMeasure:     net,
		GrossMeasure:   gross,
		CategoryTotals: make(map[domain.Category]decimal.Decimal),
	}

	var weight float64
	for _, item := range items {
		rollup.TotalPrice = rollup.TotalPrice.Add(item.ExtendedPrice)
		rollup.CategoryTotals[item.Category] = rollup.CategoryTotals[item.Category].Add(item.ExtendedPrice)
		weight += item.Weight
	}
	rollup.TotalWeight = math.Round(weight*1000) / 1000

	if perUnit > 0 {
		rollup.ValuePerUnit = rollup.TotalPrice.Div(decimal.NewFromFloat(perUnit)).Round(2)
	}
	return rollup
}

// LineID derives a stable identifier for a line item from the values that
// make it unique within a calculation.
func LineID(parts ...string) string {
	return uuid.NewSHA1(lineNamespace, []byte(strings.Join(parts, "/"))).String()
}
