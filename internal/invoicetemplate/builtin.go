package invoicetemplate

import (
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

// builtinSchemas returns the fixed template set in registration order.
// The first entry is the default template.
func builtinSchemas(catalog *tax.Catalog) []domain.Schema {
	return []domain.Schema{
		{
			ID:          "modern",
			Name:        "Modern",
			Description: "Clean, contemporary invoice design",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(3), MaxLength: i(200)}},
				{Key: "quantity", Label: "Quantity", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(1), Max: f64(1000)}},
				{Key: "price", Label: "Unit Price", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(0), Max: f64(100000)}},
				{Key: "amount", Label: "Amount", Type: domain.FieldCalculated, Strategy: domain.CalcQuantityPrice},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "quantity_positive",
					Message: "All items must have quantity greater than 0",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("quantity") <= 0 {
								return false
							}
						}
						return true
					},
				},
			},
			DefaultNotes: "Thank you for your business!",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("modern"),
			},
			Meta: map[string]string{"accent_color": "#2563eb", "layout": "vertical"},
		},
		{
			ID:          "minimal",
			Name:        "Minimal",
			Description: "Simple and clean invoice design",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Item Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(5), MaxLength: i(100)}},
				{Key: "quantity", Label: "Qty", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(1), Max: f64(999)}},
				{Key: "price", Label: "Unit Price", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(0), Max: f64(10000)}},
				{Key: "amount", Label: "Total", Type: domain.FieldCalculated, Strategy: domain.CalcQuantityPrice},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "priced_item_present",
					Message: "At least one item must have a price greater than 0",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("price") > 0 {
								return true
							}
						}
						return false
					},
				},
			},
			DefaultNotes: "Payment due within 30 days",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("minimal"),
			},
			Meta: map[string]string{"accent_color": "#4a5568"},
		},
		{
			ID:          "professional",
			Name:        "Professional",
			Description: "Detailed template for professional services",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Service Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(10), MaxLength: i(500)}},
				{Key: "quantity", Label: "Units", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(1), Max: f64(10000)}},
				{Key: "price", Label: "Rate", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(0), Max: f64(100000)}},
				{Key: "amount", Label: "Subtotal", Type: domain.FieldCalculated, Strategy: domain.CalcQuantityPrice},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "item_present",
					Message: "At least one item is required",
					Check: func(items []domain.ItemView) bool {
						return len(items) > 0
					},
				},
			},
			DefaultNotes: "Terms: Net 30 days. Late fees may apply.",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("professional"),
			},
			Meta: map[string]string{"accent_color": "#1a365d"},
		},
		{
			ID:          "freelancer",
			Name:        "Freelancer",
			Description: "Specialized template for independent software consultants",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Work Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(10), MaxLength: i(500)}},
				{Key: "rate", Label: "Hourly Rate", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(25), Max: f64(500)}},
				{Key: "hours", Label: "Hours Worked", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(0.5), Max: f64(200), Step: f64(0.5)}},
				{Key: "amount", Label: "Total", Type: domain.FieldCalculated, Strategy: domain.CalcRateHours},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "minimum_hours",
					Message: "Minimum 0.5 hours per work item",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("hours") < 0.5 {
								return false
							}
						}
						return true
					},
				},
				{
					Name:    "professional_rate",
					Message: "Professional rate recommendation: $50+/hour",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("rate") >= 50 {
								return true
							}
						}
						return len(items) == 0
					},
				},
			},
			DefaultNotes: "Payment terms: Net 15 days\nLate payment fee: 1.5% monthly interest",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("freelancer"),
			},
			Meta: map[string]string{"accent_color": "#2d3748", "preferred_units": "hours"},
		},
		{
			ID:          "legion",
			Name:        "Legion",
			Description: "15-day billing cycle for contract work",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Service Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(10), MaxLength: i(200)}},
				{Key: "period", Label: "Billing Period", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{Pattern: `^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d{1,2}-\d{1,2}, \d{4}$`}},
				{Key: "amount", Label: "Amount", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(100), Max: f64(100000)}},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "minimum_period_amount",
					Message: "Minimum invoice amount is $100 per period",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("amount") < 100 {
								return false
							}
						}
						return true
					},
				},
			},
			DefaultNotes: "Payment due within 15 days of invoice date\nLate payment interest: 1.5% per month",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("legion"),
			},
			Meta: map[string]string{"billing_interval_days": "15"},
		},
		{
			ID:          "girnar",
			Name:        "GST Invoice",
			Description: "GST-compliant invoice template for Indian businesses",
			ItemFields: []domain.FieldSpec{
				{Key: "description", Label: "Service Description", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(10), MaxLength: i(200)}},
				{Key: "hsn_sac", Label: "HSN/SAC Code", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{Pattern: `^[0-9]{6,8}$`}},
				{Key: "resource_name", Label: "Resource Name", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{MinLength: i(2), MaxLength: i(50)}},
				{Key: "rate", Label: "Daily Rate", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(0), Max: f64(100000)}},
				{Key: "worked_days", Label: "Worked Days", Type: domain.FieldNumber, Required: true,
					Validation: &domain.FieldValidation{Min: f64(1), Max: f64(31)}},
				{Key: "period", Label: "Service Month", Type: domain.FieldText, Required: true,
					Validation: &domain.FieldValidation{Pattern: `^(January|February|March|April|May|June|July|August|September|October|November|December) \d{4}$`}},
				{Key: "amount", Label: "Taxable Amount", Type: domain.FieldNumber, Required: true,
					Strategy:   domain.CalcWorkedDaysRate,
					Validation: &domain.FieldValidation{Min: f64(0)}},
			},
			Rules: []domain.ItemRule{
				{
					Name:    "minimum_worked_days",
					Message: "Minimum 1 working day required per service item",
					Check: func(items []domain.ItemView) bool {
						for _, item := range items {
							if item.Number("worked_days") < 1 {
								return false
							}
						}
						return true
					},
				},
			},
			DefaultNotes: "Payment terms: Net 15 days\nLate payment fee: 1.5% monthly interest",
			TaxPolicy: domain.TaxPolicy{
				Enabled:        true,
				Strategy:       domain.TaxStandard,
				AvailableTaxes: catalog.AvailableFor("girnar"),
			},
			Meta: map[string]string{"accent_color": "#1e40af"},
		},
	}
}
