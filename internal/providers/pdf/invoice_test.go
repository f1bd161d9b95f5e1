package pdf

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalorian99/invoiceable/internal/invoice/render"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "invoice-INV-001.pdf", FileName("INV-001", "123"))
	assert.Equal(t, "invoice-123.pdf", FileName("", "123"))
}

func TestGenerateInvoiceProducesPDF(t *testing.T) {
	p := New()

	m := render.Model{
		TemplateID:    "modern",
		InvoiceNumber: "INV-001",
		Date:          "2026-08-30",
		DueDate:       "2026-09-29",
		From:          render.PartyBlock{Name: "Acme Studio", Email: "billing@acme.test"},
		To:            render.PartyBlock{Name: "Globex", Email: "ap@globex.test"},
		Items: []render.Item{
			{Description: "Design work", Quantity: 3, Price: 10, Amount: 30},
		},
		Subtotal:       30,
		TaxesEnabled:   true,
		Taxes:          []render.TaxLine{{Name: "VAT", Rate: 20, IsPercentage: true, Amount: 6}},
		Total:          36,
		Notes:          "Thank you for your business!",
		CurrencySymbol: "$",
	}

	r, err := p.GenerateInvoice(context.Background(), m)
	require.NoError(t, err)

	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestColumnsVaryByTemplate(t *testing.T) {
	headers := func(cols []column) []string {
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, c.header)
		}
		return out
	}

	assert.Equal(t, []string{"Description", "Qty", "Unit price", "Amount"}, headers(columnsFor("modern")))
	assert.Equal(t, []string{"Description", "Rate", "Hours", "Amount"}, headers(columnsFor("freelancer")))
	assert.Equal(t, []string{"Description", "Billing period", "Amount"}, headers(columnsFor("legion")))
	assert.Equal(t, []string{"Description", "HSN/SAC", "Resource", "Days", "Rate", "Amount"}, headers(columnsFor("girnar")))
	assert.Equal(t, []string{"Description", "Qty", "Unit price", "Amount"}, headers(columnsFor("unknown")))
}

func TestColumnWidthsFillGrid(t *testing.T) {
	for _, id := range []string{"modern", "freelancer", "legion", "girnar"} {
		total := 0
		for _, c := range columnsFor(id) {
			total += c.size
		}
		assert.Equal(t, 12, total, id)
	}
}
