package domain

import "github.com/shopspring/decimal"

// RateBasis selects the derived measure a partition rate scales from.
type RateBasis string

const (
	BasisNetArea          RateBasis = "net_area"
	BasisGuide            RateBasis = "guide"
	BasisStud             RateBasis = "stud"
	BasisPerimeter        RateBasis = "perimeter"
	BasisOpeningPerimeter RateBasis = "opening_perimeter"
)

// PartitionRate is one consumption row for a partition type.
type PartitionRate struct {
	ID                  string
	PartitionType       string
	Category            Category
	Code                string
	Description         string
	Unit                string
	Basis               RateBasis
	ConsumptionRate     float64
	UnitPrice           decimal.Decimal
	WastePercent        float64
	WeightPerUnit       float64
	Order               int
	InsulationThickness int // mm; only meaningful for ISOLAMENTO rows
}

type Opening struct {
	Count  int
	Width  float64
	Height float64
}

func (o Opening) Area() float64 {
	return float64(o.Count) * o.Width * o.Height
}

func (o Opening) Perimeter() float64 {
	return float64(o.Count) * 2 * (o.Width + o.Height)
}

type PartitionInput struct {
	PartitionType       string
	Width               float64
	Height              float64
	Doors               Opening
	Windows             Opening
	StudSpacing         float64
	IncludeInsulation   bool
	InsulationThickness int
	WasteOverride       *float64
}

type PartitionGeometry struct {
	GrossArea        float64
	OpeningArea      float64
	NetArea          float64
	GuideLength      float64
	StudCount        int
	StudLength       float64
	Perimeter        float64
	OpeningPerimeter float64
}

type PartitionTakeoff struct {
	Input    PartitionInput
	Geometry PartitionGeometry
	Items    []LineItem
	Rollup   Rollup
}

type SelfCheckReport struct {
	PartitionType     string
	Takeoff           PartitionTakeoff
	MissingCategories []Category
	HasGuide          bool
	HasStud           bool
	PricePerArea      decimal.Decimal
	BandMin           decimal.Decimal
	BandMax           decimal.Decimal
	WithinBand        bool
	Findings          []string
}

// Passed reports whether every structural check held; an out-of-band price
// is flagged in Findings but does not fail the check.
func (r SelfCheckReport) Passed() bool {
	return len(r.MissingCategories) == 0 && r.HasGuide && r.HasStud
}
