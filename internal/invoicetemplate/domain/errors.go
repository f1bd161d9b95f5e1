package domain

import "errors"

var (
	ErrUnknownTemplate          = errors.New("unknown_template")
	ErrMissingCalculation       = errors.New("missing_calculation")
	ErrMissingTaxCalculation    = errors.New("missing_tax_calculation")
	ErrDuplicateFieldKey        = errors.New("duplicate_field_key")
	ErrMultipleCalculatedFields = errors.New("multiple_calculated_fields")
)
