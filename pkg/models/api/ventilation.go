package api

import "github.com/shopspring/decimal"

type VentilationRequest struct {
	Length             float64 `json:"length"`
	Width              float64 `json:"width"`
	Ratio              float64 `json:"ratio,omitempty"`
	RegionalAdjustment bool    `json:"regional_adjustment"`
	// IntakePercent defaults to a balanced 50/50 split when omitted.
	IntakePercent    *float64 `json:"intake_percent,omitempty"`
	IntakeProductID  string   `json:"intake_product_id,omitempty"`
	ExhaustProductID string   `json:"exhaust_product_id,omitempty"`
	IntakeLinearRun  *float64 `json:"intake_linear_run,omitempty"`
	ExhaustLinearRun *float64 `json:"exhaust_linear_run,omitempty"`
}

type VentilationProduct struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	NFVAPerUnit float64         `json:"nfva_per_unit"`
	Unit        string          `json:"unit"`
	Side        string          `json:"side"`
	Linear      bool            `json:"linear"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type VentilationSide struct {
	RequiredNFVA   float64             `json:"required_nfva"`
	Product        *VentilationProduct `json:"product,omitempty"`
	RequiredLength float64             `json:"required_length,omitempty"`
	Quantity       int                 `json:"quantity"`
}

type Alert struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Side     string `json:"side,omitempty"`
	Message  string `json:"message"`
}

type VentilationResult struct {
	AtticArea       float64         `json:"attic_area"`
	EffectiveRatio  float64         `json:"effective_ratio"`
	NFVATotal       float64         `json:"nfva_total"`
	NFVAIntake      float64         `json:"nfva_intake"`
	NFVAExhaust     float64         `json:"nfva_exhaust"`
	QuantityIntake  int             `json:"quantity_intake"`
	QuantityExhaust int             `json:"quantity_exhaust"`
	Intake          VentilationSide `json:"intake"`
	Exhaust         VentilationSide `json:"exhaust"`
	Alerts          []Alert         `json:"alerts"`
	Items           []LineItem      `json:"items"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}
