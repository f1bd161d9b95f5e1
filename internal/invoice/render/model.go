// Package render converts a document plus its computed totals into a
// template-agnostic render model and renders it to HTML.
package render

import (
	domain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	templatedomain "github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
)

// PartyBlock is a from/to address block.
type PartyBlock struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Item is a line item normalized to the superset of every field any
// template might reference, so switching the renderer without
// switching the document never trips over a missing key.
type Item struct {
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price"`
	Rate         float64 `json:"rate"`
	Hours        float64 `json:"hours"`
	Period       string  `json:"period"`
	HSNSAC       string  `json:"hsn_sac"`
	ResourceName string  `json:"resource_name"`
	WorkedDays   float64 `json:"worked_days"`
	Amount       float64 `json:"amount"`
}

// TaxLine is a display tax row.
type TaxLine struct {
	Name         string  `json:"name"`
	Rate         float64 `json:"rate"`
	IsPercentage bool    `json:"is_percentage"`
	Amount       float64 `json:"amount"`
}

// Model is the flat data bag consumed by every renderer: the on-screen
// preview, the HTML export, and the PDF generator all read this one
// shape so their numbers can never diverge.
type Model struct {
	TemplateID     string     `json:"template"`
	AccentColor    string     `json:"accent_color"`
	InvoiceNumber  string     `json:"invoice_number"`
	Date           string     `json:"date"`
	DueDate        string     `json:"due_date"`
	From           PartyBlock `json:"from"`
	To             PartyBlock `json:"to"`
	Items          []Item     `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	TaxesEnabled   bool       `json:"taxes_enabled"`
	Taxes          []TaxLine  `json:"taxes"`
	TaxAmount      float64    `json:"tax_amount"`
	Total          float64    `json:"total"`
	Notes          string     `json:"notes"`
	CurrencySymbol string     `json:"currency_symbol"`
}

// BuildModel is the single conversion point from document + computed
// totals to the render model. It never recalculates amounts.
func BuildModel(doc domain.Document, schema templatedomain.Schema, computed domain.Computed) Model {
	items := make([]Item, 0, len(computed.Items))
	for _, item := range computed.Items {
		items = append(items, Item{
			Description:  item.Text("description"),
			Quantity:     item.Number("quantity"),
			Price:        item.Number("price"),
			Rate:         item.Number("rate"),
			Hours:        item.Number("hours"),
			Period:       item.Text("period"),
			HSNSAC:       item.Text("hsn_sac"),
			ResourceName: item.Text("resource_name"),
			WorkedDays:   item.Number("worked_days"),
			Amount:       item.Amount,
		})
	}

	taxesEnabled := doc.TaxesEnabled && schema.TaxPolicy.Enabled
	taxes := make([]TaxLine, 0, len(computed.Taxes))
	if taxesEnabled {
		for _, line := range computed.Taxes {
			if !line.Enabled {
				continue
			}
			taxes = append(taxes, TaxLine{
				Name:         line.Name,
				Rate:         line.Rate,
				IsPercentage: line.IsPercentage,
				Amount:       line.Amount,
			})
		}
	}

	symbol := doc.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}

	return Model{
		TemplateID:     schema.ID,
		AccentColor:    schema.Meta["accent_color"],
		InvoiceNumber:  doc.InvoiceNumber,
		Date:           doc.Date,
		DueDate:        doc.DueDate,
		From:           PartyBlock(doc.From),
		To:             PartyBlock(doc.To),
		Items:          items,
		Subtotal:       computed.Subtotal,
		TaxesEnabled:   taxesEnabled,
		Taxes:          taxes,
		TaxAmount:      computed.TaxAmount,
		Total:          computed.Total,
		Notes:          doc.Notes,
		CurrencySymbol: symbol,
	}
}
