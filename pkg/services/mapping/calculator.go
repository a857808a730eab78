// Package mapping turns a base area and the parameters of a proposal type
// into a priced bill of materials using the compositions mapped for it.
package mapping

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/catalog"
	"github.com/de-tools/takeoff/pkg/services/quantity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const opCalculate = "mapping.Calculate"

type Calculator interface {
	// Calculate prices every eligible item of proposalType for baseArea.
	// A nil params uses the zero variant of the proposal type.
	Calculate(ctx context.Context, proposalType domain.ProposalType, baseArea float64, params domain.MappingParameters) (*domain.Calculation, error)
}

type calculator struct {
	resolver catalog.Resolver
}

func NewCalculator(resolver catalog.Resolver) (Calculator, error) {
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver is nil")
	}
	return &calculator{resolver: resolver}, nil
}

func (c *calculator) Calculate(ctx context.Context, proposalType domain.ProposalType, baseArea float64, params domain.MappingParameters) (*domain.Calculation, error) {
	logger := zerolog.Ctx(ctx).With().Str("proposal_type", string(proposalType)).Logger()

	if err := quantity.CheckMeasure(opCalculate, "base area", baseArea); err != nil {
		return nil, err
	}
	if baseArea <= 0 {
		return nil, domain.InvalidInput(opCalculate, "base area must be positive, got %g", baseArea)
	}
	params, err := parametersFor(proposalType, params)
	if err != nil {
		return nil, err
	}

	entries, err := c.resolver.Resolve(ctx, proposalType)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.NoMapping(opCalculate, "no compositions mapped for proposal type %q", proposalType)
	}

	var items []domain.LineItem
	for _, entry := range entries {
		comp := entry.Composition

		factor, ok := applicationFactor(comp.EffectiveScope(), baseArea, params)
		if !ok {
			if comp.Mandatory {
				return nil, domain.InvalidInput(opCalculate, "missing required parameter %q for composition %s", comp.EffectiveScope(), comp.Code)
			}
			logger.Debug().Str("composition", comp.Code).Str("scope", string(comp.EffectiveScope())).Msg("skipping optional composition without measure")
			continue
		}
		if err := quantity.CheckMeasure(opCalculate, string(comp.EffectiveScope()), baseArea*factor); err != nil {
			return nil, err
		}

		waste := 0.0
		if comp.WastePercent != nil {
			waste = *comp.WastePercent
		}
		if waste < 0 {
			return nil, domain.MalformedData(opCalculate, "composition %s has negative waste percent %g", comp.Code, waste)
		}

		for _, it := range entry.Items {
			if it.ConsumptionRate < 0 {
				return nil, domain.MalformedData(opCalculate, "item %s has negative consumption rate %g", it.Code, it.ConsumptionRate)
			}

			line := domain.LineItem{
				ID:              quantity.LineID(string(proposalType), comp.ID, it.ID),
				CompositionID:   comp.ID,
				CompositionCode: comp.Code,
				ItemID:          it.ID,
				ItemCode:        it.Code,
				Description:     it.Description,
				Category:        comp.Category,
				CommercialUnit:  it.Unit,
				UnitPrice:       it.UnitPrice,
				Order:           len(items) + 1,
				Notes:           notes(comp, baseArea, factor),
			}
			net := it.ConsumptionRate * baseArea * factor
			if err := quantity.CheckLine(opCalculate, it.Code, net, waste); err != nil {
				return nil, err
			}
			quantity.Apply(&line, net, waste, it.WeightPerUnit)
			items = append(items, line)
		}
	}

	if len(items) == 0 {
		return nil, domain.NoMapping(opCalculate, "no eligible items for proposal type %q", proposalType)
	}

	rollup := quantity.Summarize(items, baseArea, baseArea, baseArea)
	logger.Debug().
		Int("items", len(items)).
		Str("total", rollup.TotalPrice.StringFixed(2)).
		Msg("mapping calculated")

	return &domain.Calculation{
		ProposalType: proposalType,
		Items:        items,
		Rollup:       rollup,
	}, nil
}

func parametersFor(proposalType domain.ProposalType, params domain.MappingParameters) (domain.MappingParameters, error) {
	if params == nil {
		if p, ok := domain.DefaultParameters(proposalType); ok {
			return p, nil
		}
		return domain.GenericParameters{}, nil
	}
	if _, generic := params.(domain.GenericParameters); generic {
		return params, nil
	}
	if params.ProposalType() != proposalType {
		return nil, domain.InvalidInput(opCalculate, "parameters for %q cannot be used with proposal type %q", params.ProposalType(), proposalType)
	}
	return params, nil
}

// applicationFactor is the share of baseArea a composition applies to. For
// non-area scopes it converts the supplied measure into that share.
func applicationFactor(scope domain.Scope, baseArea float64, params domain.MappingParameters) (float64, bool) {
	if scope == domain.ScopeArea {
		return 1, true
	}
	measure, ok := params.ScopeMeasure(scope)
	if !ok {
		return 0, false
	}
	return measure / baseArea, true
}

func notes(comp domain.Composition, baseArea, factor float64) string {
	if comp.EffectiveScope() == domain.ScopeArea {
		return ""
	}
	return fmt.Sprintf("%s: %s", comp.EffectiveScope(), decimal.NewFromFloat(baseArea*factor).Round(2).String())
}
