package store

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// CompositionItemRow is one row of the compositions/composition_items join.
type CompositionItemRow struct {
	CompositionID       string
	CompositionCode     string
	CompositionName     string
	Category            string
	ProposalType        string
	CompositionOrder    int
	CompositionRequired bool
	ReferenceValue      decimal.Decimal
	WastePercent        sql.NullFloat64
	Scope               string
	ItemID              string
	ItemCode            string
	Description         string
	Unit                string
	ConsumptionRate     float64
	UnitPrice           decimal.Decimal
	ItemOrder           int
	ItemRequired        bool
	WeightPerUnit       float64
}

type PartitionRateRow struct {
	ID                  string
	PartitionType       string
	Category            string
	Code                string
	Description         string
	Unit                string
	Basis               string
	ConsumptionRate     float64
	UnitPrice           decimal.Decimal
	WastePercent        float64
	WeightPerUnit       float64
	Order               int
	InsulationThickness sql.NullInt64
}

type VentilationProductRow struct {
	ID          string
	Code        string
	Name        string
	NFVAPerUnit float64
	Unit        string
	Side        string
	Linear      bool
	UnitPrice   decimal.Decimal
}
