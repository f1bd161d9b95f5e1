// Package tax holds the static tax catalog and the shared tax line types
// used by template tax policies and invoice documents.
package tax

// Type is a tax definition available to invoice templates.
//
// Types are engine constants: fixed at process start, never mutated.
// An empty ApplicableTemplates slice means the type applies to every
// template.
type Type struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	DefaultRate         float64  `json:"default_rate"`
	IsPercentage        bool     `json:"is_percentage"`
	ApplicableTemplates []string `json:"applicable_templates,omitempty"`
}

// AppliesTo reports whether the type is available to the given template.
func (t Type) AppliesTo(templateID string) bool {
	if len(t.ApplicableTemplates) == 0 {
		return true
	}
	for _, id := range t.ApplicableTemplates {
		if id == templateID {
			return true
		}
	}
	return false
}

// Line is a tax applied to an invoice document. Amount is always a
// derived value; it is recomputed on every pass and never treated as a
// source of truth.
type Line struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Rate         float64 `json:"rate"`
	IsPercentage bool    `json:"is_percentage"`
	Amount       float64 `json:"amount"`
	Enabled      bool    `json:"enabled"`
}

// Breakdown is the result of applying a set of tax lines to a subtotal.
type Breakdown struct {
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
	Taxes     []Line  `json:"taxes"`
}

// Catalog is the process-wide registry of tax types. Order is the
// declaration order and is stable across calls.
type Catalog struct {
	types []Type
}

// NewCatalog builds the catalog from the built-in type set.
func NewCatalog() *Catalog {
	return &Catalog{types: builtinTypes}
}

// ListAll returns every tax type in catalog order.
func (c *Catalog) ListAll() []Type {
	out := make([]Type, len(c.types))
	copy(out, c.types)
	return out
}

// AvailableFor returns the types applicable to the given template,
// preserving catalog order.
func (c *Catalog) AvailableFor(templateID string) []Type {
	out := make([]Type, 0, len(c.types))
	for _, t := range c.types {
		if t.AppliesTo(templateID) {
			out = append(out, t)
		}
	}
	return out
}

// NewLine builds a disabled tax line from a catalog type, seeded with
// the type's default rate.
func NewLine(t Type) Line {
	return Line{
		ID:           t.ID,
		Name:         t.Name,
		Rate:         t.DefaultRate,
		IsPercentage: t.IsPercentage,
	}
}

var builtinTypes = []Type{
	{
		ID:                  "vat",
		Name:                "VAT",
		Description:         "Value Added Tax",
		DefaultRate:         20,
		IsPercentage:        true,
		ApplicableTemplates: []string{"modern", "minimal", "professional"},
	},
	{
		ID:                  "gst",
		Name:                "GST",
		Description:         "Goods and Services Tax",
		DefaultRate:         5,
		IsPercentage:        true,
		ApplicableTemplates: []string{"modern", "professional", "freelancer", "legion"},
	},
	{
		ID:                  "sales",
		Name:                "Sales Tax",
		Description:         "Standard sales tax",
		DefaultRate:         7.5,
		IsPercentage:        true,
		ApplicableTemplates: []string{"minimal", "modern"},
	},
	{
		ID:                  "income",
		Name:                "Income Tax",
		Description:         "Income tax for contract work",
		DefaultRate:         10,
		IsPercentage:        true,
		ApplicableTemplates: []string{"legion"},
	},
	{
		ID:                  "freelance",
		Name:                "Freelance Tax",
		Description:         "Tax for freelance services",
		DefaultRate:         15,
		IsPercentage:        true,
		ApplicableTemplates: []string{"freelancer"},
	},
	{
		ID:                  "igst",
		Name:                "IGST",
		Description:         "Integrated Goods and Services Tax",
		DefaultRate:         9,
		IsPercentage:        true,
		ApplicableTemplates: []string{"freelancer", "legion"},
	},
	{
		ID:                  "sgst",
		Name:                "SGST",
		Description:         "State Goods and Services Tax",
		DefaultRate:         9,
		IsPercentage:        true,
		ApplicableTemplates: []string{"freelancer", "legion", "girnar"},
	},
	{
		ID:                  "cgst",
		Name:                "CGST",
		Description:         "Central Goods and Services Tax",
		DefaultRate:         9,
		IsPercentage:        true,
		ApplicableTemplates: []string{"freelancer", "legion", "girnar"},
	},
}
