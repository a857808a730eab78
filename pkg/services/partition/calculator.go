// Package partition computes drywall partition takeoffs: wall geometry with
// half-deducted openings, per-category material lines and their rollup.
package partition

import (
	"context"
	"fmt"
	"math"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/de-tools/takeoff/pkg/services/quantity"
	catalogstore "github.com/de-tools/takeoff/pkg/store/catalog"
	"github.com/rs/zerolog"
)

const (
	opTakeoff   = "partition.Takeoff"
	opSelfCheck = "partition.SelfCheck"
)

type Calculator interface {
	Takeoff(ctx context.Context, input domain.PartitionInput) (*domain.PartitionTakeoff, error)
	// SelfCheck runs the reference wall for partitionType and reports gaps
	// in its consumption data. An out-of-band price is a finding, not an error.
	SelfCheck(ctx context.Context, partitionType string) (*domain.SelfCheckReport, error)
}

type calculator struct {
	store  catalogstore.Store
	policy domain.PartitionPolicy
}

func NewCalculator(store catalogstore.Store, policy domain.PartitionPolicy) (Calculator, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is nil")
	}
	if policy.OpeningDeductionFactor < 0 || policy.OpeningDeductionFactor > 1 {
		return nil, fmt.Errorf("opening deduction factor must be within [0, 1], got %g", policy.OpeningDeductionFactor)
	}
	if policy.DefaultStudSpacing <= 0 {
		return nil, fmt.Errorf("default stud spacing must be positive, got %g", policy.DefaultStudSpacing)
	}
	return &calculator{store: store, policy: policy}, nil
}

func (c *calculator) Takeoff(ctx context.Context, input domain.PartitionInput) (*domain.PartitionTakeoff, error) {
	takeoff, _, err := c.takeoff(ctx, input)
	return takeoff, err
}

// takeoff also returns the rate behind each line item, index-aligned.
func (c *calculator) takeoff(ctx context.Context, input domain.PartitionInput) (*domain.PartitionTakeoff, []domain.PartitionRate, error) {
	logger := zerolog.Ctx(ctx).With().Str("partition_type", input.PartitionType).Logger()

	input = c.withDefaults(input)
	if err := validate(input); err != nil {
		return nil, nil, err
	}

	geometry := c.geometry(input)
	if geometry.NetArea <= 0 {
		return nil, nil, domain.InvalidInput(opTakeoff, "openings leave no net area (gross %g m², openings %g m²)", geometry.GrossArea, geometry.OpeningArea)
	}

	rows, err := c.store.ListPartitionRates(ctx, input.PartitionType)
	if err != nil {
		return nil, nil, domain.DataSourceFailure(opTakeoff, err)
	}
	if len(rows) == 0 {
		return nil, nil, domain.NoMapping(opTakeoff, "no consumption rates for partition type %q", input.PartitionType)
	}

	rates, err := selectRates(rows, input)
	if err != nil {
		return nil, nil, err
	}

	items := make([]domain.LineItem, 0, len(rates))
	for _, rate := range rates {
		measure, unit, err := basisMeasure(rate, geometry)
		if err != nil {
			return nil, nil, err
		}
		if rate.ConsumptionRate < 0 || rate.WastePercent < 0 {
			return nil, nil, domain.MalformedData(opTakeoff, "rate %s has negative consumption or waste", rate.Code)
		}

		waste := rate.WastePercent
		if input.WasteOverride != nil {
			waste = *input.WasteOverride
		}

		line := domain.LineItem{
			ID:              quantity.LineID(input.PartitionType, rate.ID),
			CompositionID:   input.PartitionType,
			CompositionCode: input.PartitionType,
			ItemID:          rate.ID,
			ItemCode:        rate.Code,
			Description:     rate.Description,
			Category:        rate.Category,
			CommercialUnit:  rate.Unit,
			UnitPrice:       rate.UnitPrice,
			Order:           len(items) + 1,
			Notes:           fmt.Sprintf("%s: %s %s", rate.Basis, formatMeasure(measure), unit),
		}
		net := rate.ConsumptionRate * measure
		if err := quantity.CheckLine(opTakeoff, rate.Code, net, waste); err != nil {
			return nil, nil, err
		}
		quantity.Apply(&line, net, waste, rate.WeightPerUnit)
		items = append(items, line)
	}

	rollup := quantity.Summarize(items, geometry.NetArea, geometry.NetArea, geometry.GrossArea)
	logger.Debug().
		Float64("net_area", geometry.NetArea).
		Int("items", len(items)).
		Str("total", rollup.TotalPrice.StringFixed(2)).
		Msg("partition takeoff calculated")

	return &domain.PartitionTakeoff{
		Input:    input,
		Geometry: geometry,
		Items:    items,
		Rollup:   rollup,
	}, rates, nil
}

func (c *calculator) withDefaults(input domain.PartitionInput) domain.PartitionInput {
	if input.StudSpacing == 0 {
		input.StudSpacing = c.policy.DefaultStudSpacing
	}
	input.Doors = withDefaultSize(input.Doors, c.policy.DefaultDoor)
	input.Windows = withDefaultSize(input.Windows, c.policy.DefaultWindow)
	if input.IncludeInsulation && input.InsulationThickness == 0 {
		input.InsulationThickness = c.policy.ReferenceInsulationMM
	}
	return input
}

// withDefaultSize fills each missing dimension of a counted opening from def.
func withDefaultSize(o, def domain.Opening) domain.Opening {
	if o.Count <= 0 {
		return o
	}
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	return o
}

func validate(input domain.PartitionInput) error {
	measures := []struct {
		name  string
		value float64
	}{
		{"width", input.Width},
		{"height", input.Height},
		{"stud spacing", input.StudSpacing},
		{"door width", input.Doors.Width},
		{"door height", input.Doors.Height},
		{"window width", input.Windows.Width},
		{"window height", input.Windows.Height},
	}
	for _, m := range measures {
		if err := quantity.CheckMeasure(opTakeoff, m.name, m.value); err != nil {
			return err
		}
	}

	switch {
	case input.PartitionType == "":
		return domain.InvalidInput(opTakeoff, "partition type is required")
	case input.Width <= 0:
		return domain.InvalidInput(opTakeoff, "width must be positive, got %g", input.Width)
	case input.Height <= 0:
		return domain.InvalidInput(opTakeoff, "height must be positive, got %g", input.Height)
	case input.StudSpacing <= 0:
		return domain.InvalidInput(opTakeoff, "stud spacing must be positive, got %g", input.StudSpacing)
	case input.Width/input.StudSpacing > quantity.MaxQuantity:
		return domain.InvalidInput(opTakeoff, "stud spacing %g is too small for a %g m wall", input.StudSpacing, input.Width)
	case input.InsulationThickness < 0:
		return domain.InvalidInput(opTakeoff, "insulation thickness must not be negative, got %d", input.InsulationThickness)
	case input.WasteOverride != nil && *input.WasteOverride < 0:
		return domain.InvalidInput(opTakeoff, "waste override must not be negative, got %g", *input.WasteOverride)
	}
	if !validOpening(input.Doors) {
		return domain.InvalidInput(opTakeoff, "door opening values must not be negative")
	}
	if !validOpening(input.Windows) {
		return domain.InvalidInput(opTakeoff, "window opening values must not be negative")
	}
	return nil
}

func validOpening(o domain.Opening) bool {
	return o.Count >= 0 && o.Width >= 0 && o.Height >= 0
}

func (c *calculator) geometry(input domain.PartitionInput) domain.PartitionGeometry {
	gross := quantity.Round(input.Width * input.Height)
	openings := quantity.Round(input.Doors.Area() + input.Windows.Area())
	studs := int(math.Ceil(quantity.Round(input.Width/input.StudSpacing))) + 1

	return domain.PartitionGeometry{
		GrossArea:        gross,
		OpeningArea:      openings,
		NetArea:          quantity.Round(gross - c.policy.OpeningDeductionFactor*openings),
		GuideLength:      quantity.Round(2 * input.Width),
		StudCount:        studs,
		StudLength:       quantity.Round(float64(studs) * input.Height),
		Perimeter:        quantity.Round(2 * (input.Width + input.Height)),
		OpeningPerimeter: quantity.Round(input.Doors.Perimeter() + input.Windows.Perimeter()),
	}
}

// selectRates drops insulation rows unless insulation was requested, and then
// keeps only the rows of the requested thickness.
func selectRates(rows []store.PartitionRateRow, input domain.PartitionInput) ([]domain.PartitionRate, error) {
	rates := make([]domain.PartitionRate, 0, len(rows))
	insulation := 0
	for _, row := range rows {
		rate := adapters.MapStorePartitionRateToDomain(row)
		if rate.Category == domain.CategoryInsulation {
			if !input.IncludeInsulation {
				continue
			}
			if rate.InsulationThickness != 0 && rate.InsulationThickness != input.InsulationThickness {
				continue
			}
			insulation++
		}
		rates = append(rates, rate)
	}
	if input.IncludeInsulation && insulation == 0 {
		return nil, domain.InvalidInput(opTakeoff, "no %d mm insulation for partition type %q", input.InsulationThickness, input.PartitionType)
	}
	return rates, nil
}

func basisMeasure(rate domain.PartitionRate, g domain.PartitionGeometry) (float64, string, error) {
	switch rate.Basis {
	case domain.BasisNetArea:
		return g.NetArea, "m²", nil
	case domain.BasisGuide:
		return g.GuideLength, "m", nil
	case domain.BasisStud:
		return g.StudLength, "m", nil
	case domain.BasisPerimeter:
		return g.Perimeter, "m", nil
	case domain.BasisOpeningPerimeter:
		return g.OpeningPerimeter, "m", nil
	}
	return 0, "", domain.MalformedData(opTakeoff, "rate %s has unknown basis %q", rate.Code, rate.Basis)
}

func formatMeasure(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
