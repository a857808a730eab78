package domain

import "github.com/shopspring/decimal"

// Policy holds the domain policy values used by the calculators. They are
// product-owner decisions, not derived constants, and are overridable
// through configuration.
type Policy struct {
	DefaultWastePercent float64
	Partition           PartitionPolicy
	Ventilation         VentilationPolicy
}

type PartitionPolicy struct {
	OpeningDeductionFactor float64
	DefaultStudSpacing     float64
	DefaultDoor            Opening
	DefaultWindow          Opening
	PlausibilityMin        decimal.Decimal
	PlausibilityMax        decimal.Decimal
	ReferenceInsulationMM  int
}

type VentilationPolicy struct {
	RegionalRatio       float64
	DefaultRatio        float64
	DiscreteDensityCap  float64
	PlacementDensityCap float64
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultWastePercent: 10,
		Partition: PartitionPolicy{
			OpeningDeductionFactor: 0.5,
			DefaultStudSpacing:     0.60,
			DefaultDoor:            Opening{Count: 1, Width: 0.80, Height: 2.10},
			DefaultWindow:          Opening{Count: 1, Width: 1.20, Height: 1.20},
			PlausibilityMin:        decimal.NewFromInt(60),
			PlausibilityMax:        decimal.NewFromInt(250),
			ReferenceInsulationMM:  50,
		},
		Ventilation: VentilationPolicy{
			RegionalRatio:       150,
			DefaultRatio:        300,
			DiscreteDensityCap:  0.2,
			PlacementDensityCap: 0.25,
		},
	}
}
