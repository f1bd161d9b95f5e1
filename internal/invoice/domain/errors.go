package domain

import "errors"

var (
	ErrItemNotFound    = errors.New("item_not_found")
	ErrTaxNotFound     = errors.New("tax_not_found")
	ErrInvalidDocument = errors.New("invalid_document")
	ErrExportFailed    = errors.New("export_failed")
)
