// Package ventilation sizes passive attic ventilation: the net free area an
// attic needs, its intake/exhaust split and the product quantities covering it.
package ventilation

import (
	"context"
	"fmt"
	"math"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/quantity"
	catalogstore "github.com/de-tools/takeoff/pkg/store/catalog"
	"github.com/rs/zerolog"
)

const (
	opSize     = "ventilation.Size"
	opProducts = "ventilation.Products"
)

type Calculator interface {
	// Size never fails on advisory conditions; those come back as alerts.
	Size(ctx context.Context, input domain.VentilationInput) (*domain.VentilationResult, error)
	// Products lists the catalog products of one side, or of both when side
	// is empty.
	Products(ctx context.Context, side domain.VentSide) ([]domain.VentilationProduct, error)
}

type calculator struct {
	store  catalogstore.Store
	policy domain.VentilationPolicy
}

func NewCalculator(store catalogstore.Store, policy domain.VentilationPolicy) (Calculator, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is nil")
	}
	if policy.RegionalRatio <= 0 || policy.DefaultRatio <= 0 {
		return nil, fmt.Errorf("ventilation ratios must be positive, got regional %g and default %g", policy.RegionalRatio, policy.DefaultRatio)
	}
	return &calculator{store: store, policy: policy}, nil
}

func (c *calculator) Size(ctx context.Context, input domain.VentilationInput) (*domain.VentilationResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := validate(input); err != nil {
		return nil, err
	}
	area := quantity.Round(input.Length * input.Width)
	if area <= 0 {
		return nil, domain.InvalidInput(opSize, "attic area must be positive, got %g", area)
	}

	result := &domain.VentilationResult{AtticArea: area}

	ratio := input.RequestedRatio
	if ratio == 0 {
		ratio = c.policy.DefaultRatio
	}
	if input.RegionalAdjustment {
		// only an explicit ratio is reported as replaced
		if input.RequestedRatio != 0 && input.RequestedRatio != c.policy.RegionalRatio {
			result.Alerts = append(result.Alerts, domain.Alert{
				Code:     domain.AlertRegionalRatio,
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("regional adjustment applies ratio 1:%g instead of 1:%g", c.policy.RegionalRatio, input.RequestedRatio),
			})
		}
		ratio = c.policy.RegionalRatio
	}
	result.EffectiveRatio = ratio

	total := area / ratio
	intake := total * input.IntakePercent / 100
	result.NFVATotal = quantity.Round(total)
	result.NFVAIntake = quantity.Round(intake)
	result.NFVAExhaust = quantity.Round(total - intake)

	intakeProduct, exhaustProduct, err := c.selectedProducts(ctx, input)
	if err != nil {
		return nil, err
	}

	var alerts []domain.Alert
	result.Intake, alerts, err = c.sizeSide(domain.VentSideIntake, result.NFVAIntake, intakeProduct, input.IntakeLinearRun, area)
	if err != nil {
		return nil, err
	}
	result.Alerts = append(result.Alerts, alerts...)
	result.Exhaust, alerts, err = c.sizeSide(domain.VentSideExhaust, result.NFVAExhaust, exhaustProduct, input.ExhaustLinearRun, area)
	if err != nil {
		return nil, err
	}
	result.Alerts = append(result.Alerts, alerts...)

	result.QuantityIntake = result.Intake.Quantity
	result.QuantityExhaust = result.Exhaust.Quantity

	logger.Debug().
		Float64("attic_area", area).
		Float64("ratio", ratio).
		Float64("nfva_total", result.NFVATotal).
		Int("alerts", len(result.Alerts)).
		Msg("ventilation sized")

	return result, nil
}

type measure struct {
	name  string
	value float64
}

func validate(input domain.VentilationInput) error {
	measures := []measure{
		{"attic length", input.Length},
		{"attic width", input.Width},
		{"ventilation ratio", input.RequestedRatio},
		{"intake percent", input.IntakePercent},
	}
	if input.IntakeLinearRun != nil {
		measures = append(measures, measure{"intake linear run", *input.IntakeLinearRun})
	}
	if input.ExhaustLinearRun != nil {
		measures = append(measures, measure{"exhaust linear run", *input.ExhaustLinearRun})
	}
	for _, m := range measures {
		if err := quantity.CheckMeasure(opSize, m.name, m.value); err != nil {
			return err
		}
	}

	switch {
	case input.Length <= 0 || input.Width <= 0:
		return domain.InvalidInput(opSize, "attic length and width must be positive, got %g × %g", input.Length, input.Width)
	case input.IntakePercent < 0 || input.IntakePercent > 100:
		return domain.InvalidInput(opSize, "intake percent must be within 0-100, got %g", input.IntakePercent)
	case input.RequestedRatio < 0:
		return domain.InvalidInput(opSize, "ventilation ratio must be positive, got %g", input.RequestedRatio)
	case negative(input.IntakeLinearRun) || negative(input.ExhaustLinearRun):
		return domain.InvalidInput(opSize, "available linear run must not be negative")
	}
	return nil
}

func negative(v *float64) bool {
	return v != nil && *v < 0
}

func (c *calculator) selectedProducts(ctx context.Context, input domain.VentilationInput) (*domain.VentilationProduct, *domain.VentilationProduct, error) {
	if input.IntakeProductID == "" && input.ExhaustProductID == "" {
		return nil, nil, nil
	}

	rows, err := c.store.ListVentilationProducts(ctx)
	if err != nil {
		return nil, nil, domain.DataSourceFailure(opSize, err)
	}
	byID := make(map[string]domain.VentilationProduct, len(rows))
	for _, row := range rows {
		p := adapters.MapStoreVentilationProductToDomain(row)
		byID[p.ID] = p
	}

	intake, err := lookup(byID, input.IntakeProductID, domain.VentSideIntake)
	if err != nil {
		return nil, nil, err
	}
	exhaust, err := lookup(byID, input.ExhaustProductID, domain.VentSideExhaust)
	if err != nil {
		return nil, nil, err
	}
	return intake, exhaust, nil
}

func lookup(byID map[string]domain.VentilationProduct, id string, side domain.VentSide) (*domain.VentilationProduct, error) {
	if id == "" {
		return nil, nil
	}
	p, ok := byID[id]
	if !ok {
		return nil, domain.InvalidInput(opSize, "unknown ventilation product %q", id)
	}
	if p.Side != side {
		return nil, domain.InvalidInput(opSize, "product %s is an %s product and cannot be used for %s", p.Code, p.Side, side)
	}
	if p.NFVAPerUnit <= 0 {
		return nil, domain.MalformedData(opSize, "product %s has non-positive net free area %g", p.Code, p.NFVAPerUnit)
	}
	return &p, nil
}

// sizeSide covers required with product. A nil availableRun skips the
// capacity check for linear products.
func (c *calculator) sizeSide(side domain.VentSide, required float64, product *domain.VentilationProduct, availableRun *float64, area float64) (domain.VentilationSide, []domain.Alert, error) {
	result := domain.VentilationSide{Side: side, RequiredNFVA: required, Product: product}
	if product == nil {
		return result, []domain.Alert{{
			Code:     domain.AlertNoProduct,
			Severity: domain.SeverityInfo,
			Side:     side,
			Message:  fmt.Sprintf("no %s product selected; quantity left at zero", side),
		}}, nil
	}

	raw := required / product.NFVAPerUnit
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw > quantity.MaxQuantity {
		return result, nil, domain.InvalidInput(opSize, "%s needs %g units of %s, more than can be sized", side, raw, product.Code)
	}

	var alerts []domain.Alert
	units := quantity.Round(raw)
	result.Quantity = int(math.Ceil(units))

	if product.Linear {
		result.RequiredLength = units
		if availableRun != nil && units > *availableRun {
			alerts = append(alerts, domain.Alert{
				Code:     domain.AlertCapacityExceeded,
				Severity: domain.SeverityBlocking,
				Side:     side,
				Message: fmt.Sprintf("%s needs %g m of %s but only %g m are available",
					side, units, product.Code, *availableRun),
			})
		}
		return result, alerts, nil
	}

	density := float64(result.Quantity) / area
	if density > c.policy.DiscreteDensityCap {
		alerts = append(alerts, domain.Alert{
			Code:     domain.AlertDiscreteDensity,
			Severity: domain.SeverityWarning,
			Side:     side,
			Message: fmt.Sprintf("%d %s units exceed %g units/m²; keep at most %d units for this attic",
				result.Quantity, product.Code, c.policy.DiscreteDensityCap, int(math.Ceil(area*c.policy.DiscreteDensityCap))),
		})
	}
	if density > c.policy.PlacementDensityCap {
		alerts = append(alerts, domain.Alert{
			Code:     domain.AlertPlacementDensity,
			Severity: domain.SeverityWarning,
			Side:     side,
			Message: fmt.Sprintf("%s placement density %g units/m² is above %g; consider a higher-capacity product",
				side, quantity.Round(density), c.policy.PlacementDensityCap),
		})
	}
	return result, alerts, nil
}

func (c *calculator) Products(ctx context.Context, side domain.VentSide) ([]domain.VentilationProduct, error) {
	if side != "" && side != domain.VentSideIntake && side != domain.VentSideExhaust {
		return nil, domain.InvalidInput(opProducts, "unknown side %q", side)
	}

	rows, err := c.store.ListVentilationProducts(ctx)
	if err != nil {
		return nil, domain.DataSourceFailure(opProducts, err)
	}

	products := make([]domain.VentilationProduct, 0, len(rows))
	for _, row := range rows {
		p := adapters.MapStoreVentilationProductToDomain(row)
		if side == "" || p.Side == side {
			products = append(products, p)
		}
	}
	return products, nil
}
