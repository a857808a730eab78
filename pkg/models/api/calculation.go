package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type MappingRequest struct {
	ProposalType string          `json:"proposal_type"`
	BaseArea     float64         `json:"base_area"`
	Parameters   json.RawMessage `json:"parameters,omitempty"`
}

type LineItem struct {
	ID                    string          `json:"id"`
	CompositionID         string          `json:"composition_id"`
	CompositionCode       string          `json:"composition_code"`
	ItemID                string          `json:"item_id"`
	ItemCode              string          `json:"item_code"`
	Description           string          `json:"description"`
	Category              string          `json:"category"`
	NetQuantity           float64         `json:"net_quantity"`
	WasteAdjustedQuantity float64         `json:"waste_adjusted_quantity"`
	CommercialQuantity    float64         `json:"commercial_quantity"`
	CommercialUnit        string          `json:"commercial_unit"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	ExtendedPrice         decimal.Decimal `json:"extended_price"`
	Weight                float64         `json:"weight,omitempty"`
	Order                 int             `json:"order"`
	Notes                 string          `json:"notes,omitempty"`
}

type Rollup struct {
	TotalPrice     decimal.Decimal            `json:"total_price"`
	ValuePerUnit   decimal.Decimal            `json:"value_per_unit"`
	TotalWeight    float64                    `json:"total_weight"`
	NetMeasure     float64                    `json:"net_measure"`
	GrossMeasure   float64                    `json:"gross_measure"`
	CategoryTotals map[string]decimal.Decimal `json:"category_totals"`
}

type Calculation struct {
	ProposalType string     `json:"proposal_type"`
	Items        []LineItem `json:"items"`
	Rollup       Rollup     `json:"rollup"`
}

type Availability struct {
	ProposalType string `json:"proposal_type"`
	Available    bool   `json:"available"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
