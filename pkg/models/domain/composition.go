package domain

import "github.com/shopspring/decimal"

type ProposalType string

const (
	ProposalTypeGeneric       ProposalType = "generico"
	ProposalTypeRoofShingle   ProposalType = "telhado_shingle"
	ProposalTypeWaterproofing ProposalType = "impermeabilizacao"
	ProposalTypeCeiling       ProposalType = "forro"
)

// Scope is the measure a composition's consumption rates refer to.
type Scope string

const (
	ScopeArea      Scope = "area"
	ScopeRidge     Scope = "ridge"
	ScopeEave      Scope = "eave"
	ScopeValley    Scope = "valley"
	ScopePerimeter Scope = "perimeter"
	ScopeUpturn    Scope = "upturn"
)

type Composition struct {
	ID             string
	Code           string
	Name           string
	Category       Category
	ProposalType   ProposalType
	Order          int
	Mandatory      bool
	ReferenceValue decimal.Decimal // reference price per base unit
	WastePercent   *float64        // nil -> catalog default
	Scope          Scope
}

type CompositionItem struct {
	ID              string
	CompositionID   string
	Code            string
	Description     string
	Unit            string  // purchasable unit
	ConsumptionRate float64 // per unit of the composition's base measure
	UnitPrice       decimal.Decimal
	Order           int
	Mandatory       bool
	WeightPerUnit   float64 // kg per purchasable unit
}

type CatalogEntry struct {
	Composition Composition
	Items       []CompositionItem
}

// EffectiveScope treats an undeclared scope as the full base area.
func (c Composition) EffectiveScope() Scope {
	if c.Scope == "" {
		return ScopeArea
	}
	return c.Scope
}
