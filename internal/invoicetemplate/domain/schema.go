// Package domain defines the per-template invoice schema: line-item
// field shape, validation, calculation strategies, and tax policy.
package domain

import (
	"fmt"

	"github.com/mandalorian99/invoiceable/internal/tax"
)

// FieldType classifies a line-item field.
type FieldType string

const (
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldDate       FieldType = "date"
	FieldCalculated FieldType = "calculated"
)

// FieldValidation constrains a field value. Nil bounds are unset.
type FieldValidation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Step      *float64 `json:"step,omitempty"`
}

// FieldSpec describes one line-item field of a template schema.
type FieldSpec struct {
	Key        string           `json:"key"`
	Label      string           `json:"label"`
	Type       FieldType        `json:"type"`
	Required   bool             `json:"required,omitempty"`
	Validation *FieldValidation `json:"validation,omitempty"`

	// Strategy names the calculation for FieldCalculated fields and for
	// number fields whose value is re-derived (e.g. worked days x rate).
	Strategy CalcStrategy `json:"strategy,omitempty"`
}

// ItemView is the read surface a calculation or validation rule has
// over a line item. Absent keys read as zero values.
type ItemView interface {
	Number(key string) float64
	Text(key string) string
	Has(key string) bool
}

// CalcStrategy is a named, pure amount calculation. Strategies are a
// closed set registered in code; schemas reference them by name instead
// of carrying closures in configuration data.
type CalcStrategy string

const (
	CalcQuantityPrice  CalcStrategy = "quantity_price"
	CalcRateHours      CalcStrategy = "rate_hours"
	CalcWorkedDaysRate CalcStrategy = "worked_days_rate"
	CalcDirectAmount   CalcStrategy = "direct_amount"
)

// Apply derives the item amount. Unknown strategies return
// ErrMissingCalculation; callers degrade the amount to zero.
func (s CalcStrategy) Apply(item ItemView) (float64, error) {
	switch s {
	case CalcQuantityPrice:
		return item.Number("quantity") * item.Number("price"), nil
	case CalcRateHours:
		return item.Number("rate") * item.Number("hours"), nil
	case CalcWorkedDaysRate:
		return item.Number("worked_days") * item.Number("rate"), nil
	case CalcDirectAmount:
		return item.Number("amount"), nil
	default:
		return 0, ErrMissingCalculation
	}
}

// OperandKeys lists the item fields the strategy reads. Used to decide
// whether a legacy item was ever shaped for this schema.
func (s CalcStrategy) OperandKeys() []string {
	switch s {
	case CalcQuantityPrice:
		return []string{"quantity", "price"}
	case CalcRateHours:
		return []string{"rate", "hours"}
	case CalcWorkedDaysRate:
		return []string{"worked_days", "rate"}
	case CalcDirectAmount:
		return []string{"amount"}
	default:
		return nil
	}
}

// ItemRule is a named cross-item validation predicate with a
// user-facing message. Check must be pure.
type ItemRule struct {
	Name    string
	Message string
	Check   func(items []ItemView) bool
}

// TaxStrategy names the tax computation a policy uses.
type TaxStrategy string

const (
	// TaxStandard applies each enabled line as subtotal*rate/100 for
	// percentage taxes, or the flat rate otherwise.
	TaxStandard TaxStrategy = "standard"
)

// TaxPolicy is a template's tax configuration. AvailableTaxes is the
// catalog subset offered to the user; DefaultTaxID names the single
// line enabled after a template switch (may be empty).
type TaxPolicy struct {
	Enabled        bool       `json:"enabled"`
	Strategy       TaxStrategy `json:"strategy,omitempty"`
	AvailableTaxes []tax.Type `json:"available_taxes"`
	DefaultTaxID   string     `json:"default_tax_id,omitempty"`
}

// ComputeTaxes is the single authority for turning a subtotal and a set
// of tax lines into per-line amounts and a grand total. It is
// deterministic and never mutates its input.
//
// Disabled lines contribute zero but stay in the result so the caller
// keeps a full view of the applied-tax list.
func (p TaxPolicy) ComputeTaxes(subtotal float64, lines []tax.Line) (tax.Breakdown, error) {
	if p.Strategy != TaxStandard {
		return tax.Breakdown{}, ErrMissingTaxCalculation
	}

	out := make([]tax.Line, len(lines))
	taxAmount := 0.0
	for i, line := range lines {
		amount := 0.0
		if line.Enabled {
			if line.IsPercentage {
				amount = subtotal * line.Rate / 100
			} else {
				amount = line.Rate
			}
		}
		line.Amount = amount
		out[i] = line
		taxAmount += amount
	}

	return tax.Breakdown{
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
		Taxes:     out,
	}, nil
}

// Schema is the full definition of one template variant.
type Schema struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	ItemFields   []FieldSpec       `json:"item_fields"`
	Rules        []ItemRule        `json:"-"`
	DefaultNotes string            `json:"default_notes,omitempty"`
	TaxPolicy    TaxPolicy         `json:"tax_policy"`
	Meta         map[string]string `json:"meta,omitempty"`
}

// Field returns the spec for a key.
func (s Schema) Field(key string) (FieldSpec, bool) {
	for _, f := range s.ItemFields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// AmountStrategy returns the strategy that derives the item amount: the
// calculated field's strategy if one exists, otherwise a direct
// pass-through when the schema carries a plain "amount" number field.
func (s Schema) AmountStrategy() (CalcStrategy, bool) {
	for _, f := range s.ItemFields {
		if f.Type == FieldCalculated {
			return f.Strategy, f.Strategy != ""
		}
		if f.Key == "amount" && f.Strategy != "" {
			return f.Strategy, true
		}
	}
	if f, ok := s.Field("amount"); ok && f.Type == FieldNumber {
		return CalcDirectAmount, true
	}
	return "", false
}

// Validate enforces the schema invariants: unique field keys and at
// most one calculated field.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.ItemFields))
	calculated := 0
	for _, f := range s.ItemFields {
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateFieldKey, s.ID, f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Type == FieldCalculated {
			calculated++
			if f.Strategy == "" {
				return fmt.Errorf("%w: %s.%s", ErrMissingCalculation, s.ID, f.Key)
			}
		}
	}
	if calculated > 1 {
		return fmt.Errorf("%w: %s", ErrMultipleCalculatedFields, s.ID)
	}
	return nil
}

// ValidateItems runs the schema's cross-item rules and returns the
// messages of every rule that failed.
func (s Schema) ValidateItems(items []ItemView) []string {
	var failed []string
	for _, rule := range s.Rules {
		if rule.Check == nil {
			continue
		}
		if !rule.Check(items) {
			failed = append(failed, rule.Message)
		}
	}
	return failed
}
