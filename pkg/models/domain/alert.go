package domain

import "fmt"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityBlocking
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityBlocking:
		return "blocking"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// AlertCode categorizes advisory alerts.
// V1xxx = ratio/selection, V2xxx = density, V3xxx = capacity.
type AlertCode string

const (
	AlertRegionalRatio    AlertCode = "V1001"
	AlertNoProduct        AlertCode = "V1002"
	AlertDiscreteDensity  AlertCode = "V2001"
	AlertPlacementDensity AlertCode = "V2002"
	AlertCapacityExceeded AlertCode = "V3001"
)

// Alert is a non-fatal advisory attached to a calculation outcome.
type Alert struct {
	Code     AlertCode
	Severity Severity
	Side     VentSide
	Message  string
}
