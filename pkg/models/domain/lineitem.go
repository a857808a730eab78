package domain

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryBoard      Category = "VEDAÇÃO"
	CategoryStructure  Category = "ESTRUTURA"
	CategoryFixation   Category = "FIXAÇÃO"
	CategoryFinishing  Category = "ACABAMENTO"
	CategoryInsulation Category = "ISOLAMENTO"

	CategoryVentilation Category = "VENTILAÇÃO"
)

// PartitionCategories lists the drywall categories in report order.
var PartitionCategories = []Category{
	CategoryBoard,
	CategoryStructure,
	CategoryFixation,
	CategoryFinishing,
	CategoryInsulation,
}

type LineItem struct {
	ID                    string
	CompositionID         string
	CompositionCode       string
	ItemID                string
	ItemCode              string
	Description           string
	Category              Category
	NetQuantity           float64
	WasteAdjustedQuantity float64
	CommercialQuantity    float64
	CommercialUnit        string
	UnitPrice             decimal.Decimal
	ExtendedPrice         decimal.Decimal
	Weight                float64
	Order                 int
	Notes                 string
}

type Rollup struct {
	TotalPrice     decimal.Decimal
	ValuePerUnit   decimal.Decimal
	TotalWeight    float64
	NetMeasure     float64
	GrossMeasure   float64
	CategoryTotals map[Category]decimal.Decimal
}

type Calculation struct {
	ProposalType ProposalType
	Items        []LineItem
	Rollup       Rollup
}
