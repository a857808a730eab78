package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoMapping    = errors.New("no composition mapping")
	ErrDataSource   = errors.New("catalog data source failure")
)

// CalculationError aborts a calculation. Kind is one of ErrInvalidInput,
// ErrNoMapping or ErrDataSource and can be matched with errors.Is.
type CalculationError struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *CalculationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

func (e *CalculationError) Is(target error) bool {
	return target == e.Kind
}

func InvalidInput(op, format string, args ...any) error {
	return &CalculationError{Kind: ErrInvalidInput, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NoMapping(op, format string, args ...any) error {
	return &CalculationError{Kind: ErrNoMapping, Op: op, Message: fmt.Sprintf(format, args...)}
}

func DataSourceFailure(op string, err error) error {
	return &CalculationError{Kind: ErrDataSource, Op: op, Err: err}
}

func MalformedData(op, format string, args ...any) error {
	return &CalculationError{Kind: ErrDataSource, Op: op, Message: fmt.Sprintf(format, args...)}
}
