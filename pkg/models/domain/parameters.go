package domain

// MappingParameters is the closed set of extra inputs accepted by the
// generic mapping calculator. Each proposal type has exactly one variant.
type MappingParameters interface {
	ProposalType() ProposalType
	// ScopeMeasure returns the measure backing a non-area scope, in the
	// composition's base unit, and whether the caller supplied it.
	ScopeMeasure(scope Scope) (float64, bool)
}

type GenericParameters struct{}

func (GenericParameters) ProposalType() ProposalType { return ProposalTypeGeneric }

func (GenericParameters) ScopeMeasure(Scope) (float64, bool) { return 0, false }

// RoofParameters carries the linear measures of a shingle roof, in meters.
type RoofParameters struct {
	RidgeLength  float64 `json:"ridge_length" yaml:"ridge_length"`
	EaveLength   float64 `json:"eave_length" yaml:"eave_length"`
	ValleyLength float64 `json:"valley_length" yaml:"valley_length"`
}

func (RoofParameters) ProposalType() ProposalType { return ProposalTypeRoofShingle }

func (p RoofParameters) ScopeMeasure(scope Scope) (float64, bool) {
	switch scope {
	case ScopeRidge:
		return p.RidgeLength, p.RidgeLength > 0
	case ScopeEave:
		return p.EaveLength, p.EaveLength > 0
	case ScopeValley:
		return p.ValleyLength, p.ValleyLength > 0
	}
	return 0, false
}

// WaterproofingParameters describes the wall upturn around a slab.
type WaterproofingParameters struct {
	Perimeter    float64 `json:"perimeter" yaml:"perimeter"`
	UpturnHeight float64 `json:"upturn_height" yaml:"upturn_height"`
}

func (WaterproofingParameters) ProposalType() ProposalType { return ProposalTypeWaterproofing }

func (p WaterproofingParameters) ScopeMeasure(scope Scope) (float64, bool) {
	switch scope {
	case ScopePerimeter:
		return p.Perimeter, p.Perimeter > 0
	case ScopeUpturn:
		upturn := p.Perimeter * p.UpturnHeight
		return upturn, upturn > 0
	}
	return 0, false
}

type CeilingParameters struct {
	Perimeter float64 `json:"perimeter" yaml:"perimeter"`
}

func (CeilingParameters) ProposalType() ProposalType { return ProposalTypeCeiling }

func (p CeilingParameters) ScopeMeasure(scope Scope) (float64, bool) {
	if scope == ScopePerimeter {
		return p.Perimeter, p.Perimeter > 0
	}
	return 0, false
}

// DefaultParameters returns the zero variant for a proposal type; false for
// a proposal type no variant exists for.
func DefaultParameters(pt ProposalType) (MappingParameters, bool) {
	switch pt {
	case ProposalTypeGeneric:
		return GenericParameters{}, true
	case ProposalTypeRoofShingle:
		return RoofParameters{}, true
	case ProposalTypeWaterproofing:
		return WaterproofingParameters{}, true
	case ProposalTypeCeiling:
		return CeilingParameters{}, true
	}
	return nil, false
}
