package domain

import "github.com/shopspring/decimal"

type VentSide string

const (
	VentSideIntake  VentSide = "intake"
	VentSideExhaust VentSide = "exhaust"
)

type VentilationProduct struct {
	ID          string
	Code        string
	Name        string
	NFVAPerUnit float64 // m² per unit, or per linear meter when Linear
	Unit        string
	Side        VentSide
	Linear      bool
	UnitPrice   decimal.Decimal
}

type VentilationInput struct {
	Length             float64
	Width              float64
	RequestedRatio     float64
	RegionalAdjustment bool
	IntakePercent      float64
	IntakeProductID    string
	ExhaustProductID   string
	// Available run in meters for linear products; nil when not informed.
	IntakeLinearRun  *float64
	ExhaustLinearRun *float64
}

type VentilationSide struct {
	Side           VentSide
	RequiredNFVA   float64
	Product        *VentilationProduct
	RequiredLength float64 // linear products only
	Quantity       int
}

type VentilationResult struct {
	AtticArea       float64
	EffectiveRatio  float64
	NFVATotal       float64
	NFVAIntake      float64
	NFVAExhaust     float64
	QuantityIntake  int
	QuantityExhaust int
	Intake          VentilationSide
	Exhaust         VentilationSide
	Alerts          []Alert
}
