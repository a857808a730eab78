package domain

import "github.com/shopspring/decimal"

// Report is the printable form of a calculation outcome.
type Report struct {
	Title       string
	Subject     string
	Sections    []ReportSection
	Items       []LineItem
	TotalAmount decimal.Decimal
	Currency    string
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
