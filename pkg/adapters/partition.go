package adapters

import (
	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
)

// MapApiPartitionRequestToDomain leaves omitted openings at zero count; an
// opening with a count but no size gets the policy default downstream.
func MapApiPartitionRequestToDomain(req api.PartitionRequest) domain.PartitionInput {
	input := domain.PartitionInput{
		PartitionType:       req.PartitionType,
		Width:               req.Width,
		Height:              req.Height,
		StudSpacing:         req.StudSpacing,
		IncludeInsulation:   req.IncludeInsulation,
		InsulationThickness: req.InsulationThickness,
		WasteOverride:       req.WastePercent,
	}
	if req.Doors != nil {
		input.Doors = domain.Opening{Count: req.Doors.Count, Width: req.Doors.Width, Height: req.Doors.Height}
	}
	if req.Windows != nil {
		input.Windows = domain.Opening{Count: req.Windows.Count, Width: req.Windows.Width, Height: req.Windows.Height}
	}
	return input
}

func MapDomainPartitionTakeoffToApi(t domain.PartitionTakeoff) api.PartitionTakeoff {
	g := t.Geometry
	return api.PartitionTakeoff{
		PartitionType: t.Input.PartitionType,
		Geometry: api.PartitionGeometry{
			GrossArea:        g.GrossArea,
			OpeningArea:      g.OpeningArea,
			NetArea:          g.NetArea,
			GuideLength:      g.GuideLength,
			StudCount:        g.StudCount,
			StudLength:       g.StudLength,
			Perimeter:        g.Perimeter,
			OpeningPerimeter: g.OpeningPerimeter,
		},
		Items:  MapDomainLineItemsToApi(t.Items),
		Rollup: MapDomainRollupToApi(t.Rollup),
	}
}

func MapDomainSelfCheckReportToApi(r domain.SelfCheckReport) api.SelfCheckReport {
	missing := make([]string, 0, len(r.MissingCategories))
	for _, c := range r.MissingCategories {
		missing = append(missing, string(c))
	}
	findings := r.Findings
	if findings == nil {
		findings = []string{}
	}
	return api.SelfCheckReport{
		PartitionType:     r.PartitionType,
		Passed:            r.Passed(),
		MissingCategories: missing,
		HasGuide:          r.HasGuide,
		HasStud:           r.HasStud,
		PricePerArea:      r.PricePerArea,
		BandMin:           r.BandMin,
		BandMax:           r.BandMax,
		WithinBand:        r.WithinBand,
		Findings:          findings,
		Takeoff:           MapDomainPartitionTakeoffToApi(r.Takeoff),
	}
}
