package api

import "github.com/shopspring/decimal"

type Opening struct {
	Count  int     `json:"count"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type PartitionRequest struct {
	PartitionType       string   `json:"partition_type"`
	Width               float64  `json:"width"`
	Height              float64  `json:"height"`
	Doors               *Opening `json:"doors,omitempty"`
	Windows             *Opening `json:"windows,omitempty"`
	StudSpacing         float64  `json:"stud_spacing,omitempty"`
	IncludeInsulation   bool     `json:"include_insulation"`
	InsulationThickness int      `json:"insulation_thickness_mm,omitempty"`
	WastePercent        *float64 `json:"waste_percent,omitempty"`
}

type PartitionGeometry struct {
	GrossArea        float64 `json:"gross_area"`
	OpeningArea      float64 `json:"opening_area"`
	NetArea          float64 `json:"net_area"`
	GuideLength      float64 `json:"guide_length"`
	StudCount        int     `json:"stud_count"`
	StudLength       float64 `json:"stud_length"`
	Perimeter        float64 `json:"perimeter"`
	OpeningPerimeter float64 `json:"opening_perimeter"`
}

type PartitionTakeoff struct {
	PartitionType string            `json:"partition_type"`
	Geometry      PartitionGeometry `json:"geometry"`
	Items         []LineItem        `json:"items"`
	Rollup        Rollup            `json:"rollup"`
}

type SelfCheckReport struct {
	PartitionType     string           `json:"partition_type"`
	Passed            bool             `json:"passed"`
	MissingCategories []string         `json:"missing_categories"`
	HasGuide          bool             `json:"has_guide"`
	HasStud           bool             `json:"has_stud"`
	PricePerArea      decimal.Decimal  `json:"price_per_area"`
	BandMin           decimal.Decimal  `json:"band_min"`
	BandMax           decimal.Decimal  `json:"band_max"`
	WithinBand        bool             `json:"within_band"`
	Findings          []string         `json:"findings"`
	Takeoff           PartitionTakeoff `json:"takeoff"`
}
