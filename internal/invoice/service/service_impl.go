// Package service implements the invoice computation engine.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	"github.com/mandalorian99/invoiceable/internal/invoice/format"
	"github.com/mandalorian99/invoiceable/internal/invoice/render"
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate"
	templatedomain "github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
	"github.com/mandalorian99/invoiceable/internal/observability/metrics"
	"github.com/mandalorian99/invoiceable/internal/providers/pdf"
	"github.com/mandalorian99/invoiceable/internal/providers/sink"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Registry *invoicetemplate.Registry
	Renderer render.Renderer
	PDF      pdf.Provider
	Sink     sink.Provider
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log *zap.Logger

	genID    *snowflake.Node
	registry *invoicetemplate.Registry
	renderer render.Renderer
	pdf      pdf.Provider
	sink     sink.Provider
	metrics  *metrics.Metrics

	now func() time.Time
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		registry: p.Registry,
		renderer: p.Renderer,
		pdf:      p.PDF,
		sink:     p.Sink,
		metrics:  p.Metrics,
		now:      time.Now,
	}
}

// schemaFor resolves the document's template. Unknown ids fall back to
// the default schema so a stale document still renders.
func (s *Service) schemaFor(doc invoicedomain.Document) templatedomain.Schema {
	schema, err := s.registry.Get(doc.TemplateID)
	if err != nil {
		s.log.Warn("unknown template on document, using default",
			zap.String("template_id", doc.TemplateID),
			zap.String("fallback", s.registry.DefaultID()),
		)
		schema, _ = s.registry.Get(s.registry.DefaultID())
	}
	return schema
}

func (s *Service) NewDocument(ctx context.Context) (invoicedomain.Document, invoicedomain.Computed, error) {
	schema, err := s.registry.Get(s.registry.DefaultID())
	if err != nil {
		return invoicedomain.Document{}, invoicedomain.Computed{}, err
	}

	now := s.now()
	number, err := format.InvoiceNumber(format.DefaultInvoiceNumberTemplate, now, 1)
	if err != nil {
		return invoicedomain.Document{}, invoicedomain.Computed{}, err
	}

	doc := invoicedomain.Document{
		ID:             s.genID.Generate().String(),
		InvoiceNumber:  number,
		Date:           now.Format(invoicedomain.DateFormat),
		DueDate:        invoicedomain.DefaultDueDate(now),
		Items:          []invoicedomain.LineItem{newItem(s.genID.Generate().String(), schema)},
		Notes:          schema.DefaultNotes,
		TemplateID:     schema.ID,
		CurrencySymbol: "$",
		Taxes:          buildTaxes(schema),
		TaxesEnabled:   false,
	}

	computed, err := s.Recompute(ctx, doc)
	return doc, computed, err
}

// Recompute derives every amount in the document from its field values
// and the active template schema. The document itself is not mutated;
// the computed view carries items with refreshed amounts.
func (s *Service) Recompute(ctx context.Context, doc invoicedomain.Document) (invoicedomain.Computed, error) {
	_ = ctx
	schema := s.schemaFor(doc)
	s.metrics.RecordRecompute(schema.ID)

	items := make([]invoicedomain.LineItem, len(doc.Items))
	subtotal := 0.0
	for i, item := range doc.Items {
		next := item.Clone()
		next.Amount = deriveAmount(schema, next)
		next.SetField("amount", invoicedomain.Number(next.Amount))
		items[i] = next
		subtotal += next.Amount
	}

	computed := invoicedomain.Computed{
		Items:    items,
		Subtotal: subtotal,
		Taxes:    zeroedTaxes(doc.Taxes),
		Total:    subtotal,
	}

	if !doc.TaxesEnabled || !schema.TaxPolicy.Enabled {
		return computed, nil
	}

	breakdown, err := schema.TaxPolicy.ComputeTaxes(subtotal, doc.Taxes)
	if err != nil {
		// The subtotal view stays usable; the caller decides whether a
		// missing tax calculation is fatal for its operation.
		s.log.Warn("tax computation unavailable",
			zap.String("template_id", schema.ID),
			zap.Error(err),
		)
		return computed, err
	}

	computed.Taxes = breakdown.Taxes
	computed.TaxAmount = breakdown.TaxAmount
	computed.Total = breakdown.Total
	return computed, nil
}

// deriveAmount applies the schema's amount strategy to one item. When
// none of the strategy's operand fields exist on the item but a stored
// amount does, the stored amount wins. That keeps documents created
// under a different template renderable after a switch.
func deriveAmount(schema templatedomain.Schema, item invoicedomain.LineItem) float64 {
	strategy, ok := schema.AmountStrategy()
	if !ok {
		if item.Has("amount") {
			return item.Number("amount")
		}
		return 0
	}

	operands := strategy.OperandKeys()
	anyOperand := false
	for _, key := range operands {
		if item.Has(key) {
			anyOperand = true
			break
		}
	}
	if !anyOperand && item.Has("amount") {
		return item.Number("amount")
	}

	amount, err := strategy.Apply(item)
	if err != nil {
		return 0
	}
	return amount
}

func zeroedTaxes(lines []tax.Line) []tax.Line {
	out := make([]tax.Line, len(lines))
	for i, line := range lines {
		line.Amount = 0
		out[i] = line
	}
	return out
}

// buildTaxes materializes the schema's available taxes as disabled
// lines, enabling only the policy default.
func buildTaxes(schema templatedomain.Schema) []tax.Line {
	lines := make([]tax.Line, 0, len(schema.TaxPolicy.AvailableTaxes))
	for _, t := range schema.TaxPolicy.AvailableTaxes {
		line := tax.NewLine(t)
		if t.ID == schema.TaxPolicy.DefaultTaxID {
			line.Enabled = true
		}
		lines = append(lines, line)
	}
	return lines
}

// newItem builds a line item with schema-derived defaults.
func newItem(id string, schema templatedomain.Schema) invoicedomain.LineItem {
	item := invoicedomain.LineItem{ID: id, Fields: map[string]invoicedomain.FieldValue{}}
	for _, f := range schema.ItemFields {
		if f.Type == templatedomain.FieldCalculated {
			continue
		}
		switch f.Type {
		case templatedomain.FieldNumber:
			if f.Key == "quantity" {
				item.SetField(f.Key, invoicedomain.Number(1))
			} else {
				item.SetField(f.Key, invoicedomain.Number(0))
			}
		default:
			item.SetField(f.Key, invoicedomain.Text(""))
		}
	}
	return item
}

// ApplyTemplate switches the document to a new template. An unknown id
// aborts and returns the document untouched.
func (s *Service) ApplyTemplate(ctx context.Context, doc invoicedomain.Document, templateID string) (invoicedomain.Document, invoicedomain.Computed, error) {
	next, err := s.registry.Get(templateID)
	if err != nil {
		s.log.Warn("template switch rejected", zap.String("template_id", templateID))
		return doc, invoicedomain.Computed{}, err
	}

	prev := s.schemaFor(doc)

	out := doc.Clone()
	out.TemplateID = next.ID
	for i, item := range out.Items {
		out.Items[i] = reconcileItem(item, next)
	}
	out.Taxes = buildTaxes(next)
	if out.Notes == "" || out.Notes == prev.DefaultNotes {
		out.Notes = next.DefaultNotes
	}

	computed, err := s.Recompute(ctx, out)
	if err != nil && !errors.Is(err, templatedomain.ErrMissingTaxCalculation) {
		return doc, invoicedomain.Computed{}, err
	}
	return out, computed, nil
}

// reconcileItem shapes an existing item for a new schema: every field
// the item already has is kept (switching back loses nothing), and
// fields the new schema needs are added with zero values.
func reconcileItem(item invoicedomain.LineItem, schema templatedomain.Schema) invoicedomain.LineItem {
	out := item.Clone()
	for _, f := range schema.ItemFields {
		if f.Type == templatedomain.FieldCalculated || out.Has(f.Key) {
			continue
		}
		switch f.Type {
		case templatedomain.FieldNumber:
			out.SetField(f.Key, invoicedomain.Number(0))
		default:
			out.SetField(f.Key, invoicedomain.Text(""))
		}
	}
	return out
}

func (s *Service) AddItem(ctx context.Context, doc invoicedomain.Document) (invoicedomain.Document, invoicedomain.Computed, error) {
	schema := s.schemaFor(doc)

	out := doc.Clone()
	out.Items = append(out.Items, newItem(s.genID.Generate().String(), schema))

	computed, err := s.Recompute(ctx, out)
	return out, computed, err
}

func (s *Service) UpdateItemField(ctx context.Context, doc invoicedomain.Document, itemID, key string, value invoicedomain.FieldValue) (invoicedomain.Document, invoicedomain.Computed, error) {
	out := doc.Clone()
	item, ok := out.Item(itemID)
	if !ok {
		return doc, invoicedomain.Computed{}, invoicedomain.ErrItemNotFound
	}
	item.SetField(key, value)

	computed, err := s.Recompute(ctx, out)
	return out, computed, err
}

func (s *Service) RemoveItem(ctx context.Context, doc invoicedomain.Document, itemID string) (invoicedomain.Document, invoicedomain.Computed, error) {
	out := doc.Clone()
	if !out.RemoveItem(itemID) {
		return doc, invoicedomain.Computed{}, invoicedomain.ErrItemNotFound
	}

	computed, err := s.Recompute(ctx, out)
	return out, computed, err
}

func (s *Service) ToggleTax(ctx context.Context, doc invoicedomain.Document, taxID string, enabled bool) (invoicedomain.Document, invoicedomain.Computed, error) {
	out := doc.Clone()
	line, ok := out.TaxLine(taxID)
	if !ok {
		return doc, invoicedomain.Computed{}, invoicedomain.ErrTaxNotFound
	}
	line.Enabled = enabled

	computed, err := s.Recompute(ctx, out)
	return out, computed, err
}

func (s *Service) ValidateItems(ctx context.Context, doc invoicedomain.Document) ([]string, error) {
	_ = ctx
	schema := s.schemaFor(doc)

	views := make([]templatedomain.ItemView, len(doc.Items))
	for i := range doc.Items {
		views[i] = doc.Items[i]
	}
	return schema.ValidateItems(views), nil
}

func (s *Service) RenderHTML(ctx context.Context, doc invoicedomain.Document) (invoicedomain.RenderResult, error) {
	schema := s.schemaFor(doc)

	computed, err := s.Recompute(ctx, doc)
	if err != nil && !errors.Is(err, templatedomain.ErrMissingTaxCalculation) {
		return invoicedomain.RenderResult{}, err
	}

	html, err := s.renderer.RenderHTML(render.BuildModel(doc, schema, computed))
	if err != nil {
		return invoicedomain.RenderResult{}, err
	}

	return invoicedomain.RenderResult{TemplateID: schema.ID, HTML: html}, nil
}

// ExportPDF aborts on a missing tax calculation instead of exporting a
// silently wrong total.
func (s *Service) ExportPDF(ctx context.Context, doc invoicedomain.Document) (invoicedomain.ExportResult, error) {
	schema := s.schemaFor(doc)

	computed, err := s.Recompute(ctx, doc)
	if err != nil {
		s.metrics.RecordExport(schema.ID, false)
		return invoicedomain.ExportResult{}, err
	}

	reader, err := s.pdf.GenerateInvoice(ctx, render.BuildModel(doc, schema, computed))
	if err != nil {
		s.metrics.RecordExport(schema.ID, false)
		s.log.Error("pdf generation failed",
			zap.String("invoice_number", doc.InvoiceNumber),
			zap.Error(err),
		)
		return invoicedomain.ExportResult{}, invoicedomain.ErrExportFailed
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		s.metrics.RecordExport(schema.ID, false)
		return invoicedomain.ExportResult{}, invoicedomain.ErrExportFailed
	}

	s.metrics.RecordExport(schema.ID, true)
	return invoicedomain.ExportResult{
		FileName: pdf.FileName(doc.InvoiceNumber, doc.ID),
		PDF:      raw,
	}, nil
}

// Save aborts on a missing tax calculation for the same reason export
// does: the remote copy would carry a silently wrong total.
func (s *Service) Save(ctx context.Context, doc invoicedomain.Document) (invoicedomain.SaveResult, error) {
	if _, err := s.Recompute(ctx, doc); err != nil {
		s.metrics.RecordSave(false)
		return invoicedomain.SaveResult{}, err
	}

	res := s.sink.Save(ctx, doc)
	s.metrics.RecordSave(res.Success)
	return res, nil
}
