package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	"github.com/mandalorian99/invoiceable/internal/invoice/render"
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate"
	templatedomain "github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
	"github.com/mandalorian99/invoiceable/internal/providers/pdf"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

// untaxedSchema carries no tax policy at all; amounts still derive from
// quantity and price.
func untaxedSchema(id string) templatedomain.Schema {
	return templatedomain.Schema{
		ID:   id,
		Name: "Plain",
		ItemFields: []templatedomain.FieldSpec{
			{Key: "description", Label: "Description", Type: templatedomain.FieldText},
			{Key: "quantity", Label: "Quantity", Type: templatedomain.FieldNumber},
			{Key: "price", Label: "Unit Price", Type: templatedomain.FieldNumber},
			{Key: "amount", Label: "Amount", Type: templatedomain.FieldCalculated, Strategy: templatedomain.CalcQuantityPrice},
		},
	}
}

type stubSink struct {
	saved  []invoicedomain.Document
	result invoicedomain.SaveResult
}

func (s *stubSink) Save(ctx context.Context, doc invoicedomain.Document) invoicedomain.SaveResult {
	s.saved = append(s.saved, doc)
	return s.result
}

func newTestService(t *testing.T) (*Service, *stubSink) {
	t.Helper()

	registry, err := invoicetemplate.NewRegistry(tax.NewCatalog())
	require.NoError(t, err)
	return newServiceWithRegistry(t, registry)
}

func newServiceWithRegistry(t *testing.T, registry *invoicetemplate.Registry) (*Service, *stubSink) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	sk := &stubSink{result: invoicedomain.SaveResult{Success: true, Message: "Invoice saved successfully"}}

	svc := NewService(ServiceParam{
		Log:      zap.NewNop(),
		GenID:    node,
		Registry: registry,
		Renderer: render.NewRenderer(zap.NewNop()),
		PDF:      pdf.New(),
		Sink:     sk,
	}).(*Service)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return svc, sk
}

func item(id string, fields map[string]invoicedomain.FieldValue) invoicedomain.LineItem {
	return invoicedomain.LineItem{ID: id, Fields: fields}
}

func TestNewDocumentDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	doc, computed, err := svc.NewDocument(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "INV-001", doc.InvoiceNumber)
	assert.Equal(t, "modern", doc.TemplateID)
	assert.Equal(t, "2026-08-30", doc.Date)
	assert.Equal(t, "2026-09-29", doc.DueDate)
	assert.Equal(t, "Thank you for your business!", doc.Notes)
	assert.False(t, doc.TaxesEnabled)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, 1.0, doc.Items[0].Number("quantity"))
	assert.Equal(t, 0.0, doc.Items[0].Number("price"))

	// Modern offers vat, gst and sales, all disabled.
	require.Len(t, doc.Taxes, 3)
	for _, line := range doc.Taxes {
		assert.False(t, line.Enabled)
	}

	assert.Equal(t, 0.0, computed.Subtotal)
	assert.Equal(t, 0.0, computed.Total)
}

func TestRecomputeQuantityTimesPrice(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Design work"),
				"quantity":    invoicedomain.Number(3),
				"price":       invoicedomain.Number(10),
			}),
			item("2", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Hosting"),
				"quantity":    invoicedomain.Number(2),
				"price":       invoicedomain.Number(10),
			}),
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 30.0, computed.Items[0].Amount)
	assert.Equal(t, 20.0, computed.Items[1].Amount)
	assert.Equal(t, 50.0, computed.Subtotal)
	assert.Equal(t, 50.0, computed.Total)

	// The input document is untouched.
	assert.Equal(t, 0.0, doc.Items[0].Amount)
}

func TestRecomputePercentageTax(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(10),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "income", Name: "Income Tax", Rate: 10, IsPercentage: true, Enabled: true},
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 100.0, computed.Subtotal)
	assert.Equal(t, 10.0, computed.TaxAmount)
	assert.Equal(t, 110.0, computed.Total)
}

func TestRecomputeRateTimesHoursWithFreelanceTax(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID:   "freelancer",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Consulting"),
				"rate":        invoicedomain.Number(50),
				"hours":       invoicedomain.Number(2),
			}),
		},
		Taxes: []tax.Line{
			{ID: "freelance", Name: "Freelance Tax", Rate: 15, IsPercentage: true, Enabled: true},
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 100.0, computed.Subtotal)
	assert.Equal(t, 15.0, computed.TaxAmount)
	assert.Equal(t, 115.0, computed.Total)
}

func TestRecomputeIsDeterministic(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(3),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true, Enabled: true},
		},
	}

	first, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)
	second, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecomputeStoredAmountWinsWithoutOperands(t *testing.T) {
	svc, _ := newTestService(t)

	// An item shaped under another template: only a stored amount, none
	// of the quantity/price operands the modern schema derives from.
	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Retainer"),
				"amount":      invoicedomain.Number(1500),
			}),
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, computed.Subtotal)
}

func TestRecomputeUnknownTemplateFallsBack(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "retired-template",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(2),
				"price":    invoicedomain.Number(5),
			}),
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 10.0, computed.Subtotal)
}

func TestApplyTemplateRebuildsTaxes(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Design work"),
				"quantity":    invoicedomain.Number(3),
				"price":       invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true, Enabled: true},
		},
	}

	out, _, err := svc.ApplyTemplate(context.Background(), doc, "girnar")
	require.NoError(t, err)

	assert.Equal(t, "girnar", out.TemplateID)

	// Girnar offers SGST and CGST, neither enabled by default.
	ids := make([]string, 0)
	for _, line := range out.Taxes {
		ids = append(ids, line.ID)
		assert.False(t, line.Enabled, line.ID)
	}
	assert.Equal(t, []string{"sgst", "cgst"}, ids)
}

func TestBuildTaxesEnablesPolicyDefault(t *testing.T) {
	schema := templatedomain.Schema{
		TaxPolicy: templatedomain.TaxPolicy{
			Enabled:        true,
			Strategy:       templatedomain.TaxStandard,
			AvailableTaxes: tax.NewCatalog().AvailableFor("freelancer"),
			DefaultTaxID:   "freelance",
		},
	}

	lines := buildTaxes(schema)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, line.ID == "freelance", line.Enabled, line.ID)
	}
}

func TestApplyTemplateReconcilesItems(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Design work"),
				"quantity":    invoicedomain.Number(3),
				"price":       invoicedomain.Number(10),
			}),
		},
	}

	out, computed, err := svc.ApplyTemplate(context.Background(), doc, "freelancer")
	require.NoError(t, err)

	it := out.Items[0]
	// New schema fields defaulted, old fields retained.
	assert.True(t, it.Has("rate"))
	assert.True(t, it.Has("hours"))
	assert.Equal(t, 3.0, it.Number("quantity"))
	assert.Equal(t, "Design work", it.Text("description"))

	// rate and hours are zero, so the freelancer amount is zero.
	assert.Equal(t, 0.0, computed.Subtotal)

	// Switching back re-derives from the retained quantity and price.
	back, computedBack, err := svc.ApplyTemplate(context.Background(), out, "modern")
	require.NoError(t, err)
	assert.Equal(t, "modern", back.TemplateID)
	assert.Equal(t, 30.0, computedBack.Subtotal)
}

func TestApplyTemplateUnknownIDLeavesDocumentUntouched(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Notes:      "custom notes",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(3),
				"price":    invoicedomain.Number(10),
			}),
		},
	}

	out, _, err := svc.ApplyTemplate(context.Background(), doc, "no-such-template")
	require.Error(t, err)
	assert.Equal(t, doc, out)
}

func TestApplyTemplateSwapsDefaultNotes(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Notes:      "Thank you for your business!",
	}

	out, _, err := svc.ApplyTemplate(context.Background(), doc, "minimal")
	require.NoError(t, err)
	assert.Equal(t, "Payment due within 30 days", out.Notes)

	doc.Notes = "keep my custom notes"
	out, _, err = svc.ApplyTemplate(context.Background(), doc, "minimal")
	require.NoError(t, err)
	assert.Equal(t, "keep my custom notes", out.Notes)
}

func TestAddItemUsesSchemaDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{TemplateID: "freelancer"}
	out, _, err := svc.AddItem(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	it := out.Items[0]
	assert.NotEmpty(t, it.ID)
	assert.True(t, it.Has("rate"))
	assert.True(t, it.Has("hours"))
	assert.Equal(t, "", it.Text("description"))
}

func TestValidateItems(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(0),
				"price":    invoicedomain.Number(10),
			}),
		},
	}

	failures, err := svc.ValidateItems(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, failures, "All items must have quantity greater than 0")

	doc.Items[0].SetField("quantity", invoicedomain.Number(2))
	failures, err = svc.ValidateItems(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestRenderHTMLUsesActiveTemplate(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		InvoiceNumber: "INV-007",
		TemplateID:    "freelancer",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Consulting"),
				"rate":        invoicedomain.Number(50),
				"hours":       invoicedomain.Number(2),
			}),
		},
	}

	res, err := svc.RenderHTML(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "freelancer", res.TemplateID)
	assert.Contains(t, res.HTML, "INV-007")
	assert.Contains(t, res.HTML, "Hours")
	assert.Contains(t, res.HTML, "$100.00")
}

func TestExportPDF(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		ID:            "42",
		InvoiceNumber: "INV-042",
		TemplateID:    "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"description": invoicedomain.Text("Design work"),
				"quantity":    invoicedomain.Number(3),
				"price":       invoicedomain.Number(10),
			}),
		},
	}

	res, err := svc.ExportPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV-042.pdf", res.FileName)
	require.NotEmpty(t, res.PDF)
	assert.Equal(t, "%PDF", string(res.PDF[:4]))
}

func TestSaveDelegatesToSink(t *testing.T) {
	svc, sk := newTestService(t)

	doc := invoicedomain.Document{InvoiceNumber: "INV-001", TemplateID: "modern"}
	res, err := svc.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, sk.saved, 1)
	assert.Equal(t, "INV-001", sk.saved[0].InvoiceNumber)
}

func TestSaveAbortsOnMissingTaxCalculation(t *testing.T) {
	// A schema that enables taxes without naming a strategy cannot
	// produce a trustworthy total, so the document must not reach the
	// remote endpoint.
	legacy := untaxedSchema("legacy")
	legacy.TaxPolicy = templatedomain.TaxPolicy{
		Enabled:        true,
		AvailableTaxes: tax.NewCatalog().AvailableFor("modern"),
	}
	registry, err := invoicetemplate.NewRegistryFromSchemas([]templatedomain.Schema{legacy})
	require.NoError(t, err)
	svc, sk := newServiceWithRegistry(t, registry)

	doc := invoicedomain.Document{
		TemplateID:   "legacy",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(3),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true, Enabled: true},
		},
	}

	_, err = svc.Save(context.Background(), doc)
	assert.ErrorIs(t, err, templatedomain.ErrMissingTaxCalculation)
	assert.Empty(t, sk.saved)
}

func TestUpdateItemFieldRecomputes(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(3),
				"price":    invoicedomain.Number(10),
			}),
		},
	}

	out, computed, err := svc.UpdateItemField(context.Background(), doc, "1", "quantity", invoicedomain.Number(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, out.Items[0].Number("quantity"))
	assert.Equal(t, 50.0, computed.Subtotal)

	// The input document is untouched.
	assert.Equal(t, 3.0, doc.Items[0].Number("quantity"))

	_, _, err = svc.UpdateItemField(context.Background(), doc, "no-such-item", "quantity", invoicedomain.Number(5))
	assert.ErrorIs(t, err, invoicedomain.ErrItemNotFound)
}

func TestRemoveItemRecomputes(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID: "modern",
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(3),
				"price":    invoicedomain.Number(10),
			}),
			item("2", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(2),
				"price":    invoicedomain.Number(10),
			}),
		},
	}

	out, computed, err := svc.RemoveItem(context.Background(), doc, "1")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "2", out.Items[0].ID)
	assert.Equal(t, 20.0, computed.Subtotal)

	_, _, err = svc.RemoveItem(context.Background(), doc, "no-such-item")
	assert.ErrorIs(t, err, invoicedomain.ErrItemNotFound)
	require.Len(t, doc.Items, 2)
}

func TestToggleTaxRecomputes(t *testing.T) {
	svc, _ := newTestService(t)

	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(10),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true},
		},
	}

	out, computed, err := svc.ToggleTax(context.Background(), doc, "vat", true)
	require.NoError(t, err)
	assert.True(t, out.Taxes[0].Enabled)
	assert.Equal(t, 20.0, computed.TaxAmount)
	assert.Equal(t, 120.0, computed.Total)

	off, computedOff, err := svc.ToggleTax(context.Background(), out, "vat", false)
	require.NoError(t, err)
	assert.False(t, off.Taxes[0].Enabled)
	assert.Equal(t, 0.0, computedOff.TaxAmount)
	assert.Equal(t, 100.0, computedOff.Total)

	_, _, err = svc.ToggleTax(context.Background(), doc, "no-such-tax", true)
	assert.ErrorIs(t, err, invoicedomain.ErrTaxNotFound)
}

func TestRecomputeDocumentTaxToggleOffZeroesTaxes(t *testing.T) {
	svc, _ := newTestService(t)

	// Stale line amounts from an earlier taxes-enabled pass.
	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: false,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(10),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true, Enabled: true, Amount: 20},
		},
	}

	computed, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 100.0, computed.Subtotal)
	assert.Equal(t, 0.0, computed.TaxAmount)
	assert.Equal(t, 100.0, computed.Total)
	require.Len(t, computed.Taxes, 1)
	assert.Equal(t, 0.0, computed.Taxes[0].Amount)
}

func TestApplyTemplateToUntaxedSchemaZeroesTaxes(t *testing.T) {
	registry, err := invoicetemplate.NewRegistry(tax.NewCatalog())
	require.NoError(t, err)
	modern, err := registry.Get("modern")
	require.NoError(t, err)

	mixed, err := invoicetemplate.NewRegistryFromSchemas([]templatedomain.Schema{modern, untaxedSchema("plain")})
	require.NoError(t, err)
	svc, _ := newServiceWithRegistry(t, mixed)

	doc := invoicedomain.Document{
		TemplateID:   "modern",
		TaxesEnabled: true,
		Items: []invoicedomain.LineItem{
			item("1", map[string]invoicedomain.FieldValue{
				"quantity": invoicedomain.Number(10),
				"price":    invoicedomain.Number(10),
			}),
		},
		Taxes: []tax.Line{
			{ID: "vat", Name: "VAT", Rate: 20, IsPercentage: true, Enabled: true},
		},
	}

	before, err := svc.Recompute(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 120.0, before.Total)

	out, computed, err := svc.ApplyTemplate(context.Background(), doc, "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out.TemplateID)
	assert.Equal(t, 100.0, computed.Subtotal)
	assert.Equal(t, 0.0, computed.TaxAmount)
	assert.Equal(t, 100.0, computed.Total)
	assert.Empty(t, out.Taxes)
}
