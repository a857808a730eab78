package partition

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/rs/zerolog"
)

// referenceInput is a 6 m × 3 m wall with one door, one window and
// insulation at the reference thickness.
func (c *calculator) referenceInput(partitionType string) domain.PartitionInput {
	return domain.PartitionInput{
		PartitionType:       partitionType,
		Width:               6,
		Height:              3,
		Doors:               domain.Opening{Count: 1, Width: c.policy.DefaultDoor.Width, Height: c.policy.DefaultDoor.Height},
		Windows:             domain.Opening{Count: 1, Width: c.policy.DefaultWindow.Width, Height: c.policy.DefaultWindow.Height},
		StudSpacing:         c.policy.DefaultStudSpacing,
		IncludeInsulation:   true,
		InsulationThickness: c.policy.ReferenceInsulationMM,
	}
}

func (c *calculator) SelfCheck(ctx context.Context, partitionType string) (*domain.SelfCheckReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("partition_type", partitionType).Logger()

	takeoff, rates, err := c.takeoff(ctx, c.referenceInput(partitionType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSelfCheck, err)
	}

	report := &domain.SelfCheckReport{
		PartitionType: partitionType,
		Takeoff:       *takeoff,
		PricePerArea:  takeoff.Rollup.ValuePerUnit,
		BandMin:       c.policy.PlausibilityMin,
		BandMax:       c.policy.PlausibilityMax,
	}

	present := make(map[domain.Category]bool)
	for i, item := range takeoff.Items {
		present[item.Category] = true
		if item.Category != domain.CategoryStructure {
			continue
		}
		switch rates[i].Basis {
		case domain.BasisGuide:
			report.HasGuide = true
		case domain.BasisStud:
			report.HasStud = true
		}
	}

	for _, category := range domain.PartitionCategories {
		if !present[category] {
			report.MissingCategories = append(report.MissingCategories, category)
			report.Findings = append(report.Findings, fmt.Sprintf("no items in category %s", category))
		}
	}
	if !report.HasGuide {
		report.Findings = append(report.Findings, "no guide (track) item in ESTRUTURA")
	}
	if !report.HasStud {
		report.Findings = append(report.Findings, "no stud item in ESTRUTURA")
	}

	report.WithinBand = report.PricePerArea.GreaterThanOrEqual(report.BandMin) &&
		report.PricePerArea.LessThanOrEqual(report.BandMax)
	if !report.WithinBand {
		msg := fmt.Sprintf("price per m² %s outside plausibility band [%s, %s]",
			report.PricePerArea.StringFixed(2), report.BandMin.StringFixed(2), report.BandMax.StringFixed(2))
		report.Findings = append(report.Findings, msg)
		logger.Warn().Str("price_per_m2", report.PricePerArea.StringFixed(2)).Msg(msg)
	}

	logger.Info().Bool("passed", report.Passed()).Int("findings", len(report.Findings)).Msg("partition self-check finished")
	return report, nil
}
