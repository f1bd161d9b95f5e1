package domain

import (
	"context"

	"github.com/mandalorian99/invoiceable/internal/tax"
)

// Computed is the fully-derived view of a document: per-item amounts,
// subtotal, tax line amounts, and the grand total. It is the only shape
// callers may use to obtain totals; no other code path computes a grand
// total independently.
type Computed struct {
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Taxes     []tax.Line `json:"taxes"`
	TaxAmount float64    `json:"tax_amount"`
	Total     float64    `json:"total"`
}

// RenderResult is a rendered on-screen preview.
type RenderResult struct {
	TemplateID string `json:"template"`
	HTML       string `json:"html"`
}

// ExportResult is a generated PDF ready for download.
type ExportResult struct {
	FileName string `json:"file_name"`
	PDF      []byte `json:"-"`
}

// SaveResult reports the outcome of a remote persistence attempt.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service is the invoice computation engine plus its boundary
// operations (preview, export, save).
type Service interface {
	// NewDocument builds a fresh default document for the builder form.
	NewDocument(ctx context.Context) (Document, Computed, error)

	// Recompute derives all amounts from the document and its active
	// template schema. Unknown template ids fall back to the default
	// schema; a missing tax calculation is reported alongside a still
	// renderable Computed (taxes zeroed).
	Recompute(ctx context.Context, doc Document) (Computed, error)

	// ApplyTemplate switches the document to a new template, reconciling
	// items and rebuilding taxes. An unknown template id aborts the
	// transition and leaves the document in its prior state.
	ApplyTemplate(ctx context.Context, doc Document, templateID string) (Document, Computed, error)

	// AddItem appends a line item with schema-derived defaults.
	AddItem(ctx context.Context, doc Document) (Document, Computed, error)

	// UpdateItemField sets one dynamic field on an item and recomputes.
	// ErrItemNotFound leaves the document in its prior state.
	UpdateItemField(ctx context.Context, doc Document, itemID, key string, value FieldValue) (Document, Computed, error)

	// RemoveItem deletes an item and recomputes. ErrItemNotFound leaves
	// the document in its prior state.
	RemoveItem(ctx context.Context, doc Document, itemID string) (Document, Computed, error)

	// ToggleTax enables or disables one applied tax line and recomputes.
	// ErrTaxNotFound leaves the document in its prior state.
	ToggleTax(ctx context.Context, doc Document, taxID string, enabled bool) (Document, Computed, error)

	// ValidateItems runs the active schema's cross-item rules and
	// returns the messages of every failed rule.
	ValidateItems(ctx context.Context, doc Document) ([]string, error)

	// RenderHTML produces the on-screen preview for the document.
	RenderHTML(ctx context.Context, doc Document) (RenderResult, error)

	// ExportPDF generates the downloadable PDF. Aborts on a missing tax
	// calculation rather than exporting a silently wrong total.
	ExportPDF(ctx context.Context, doc Document) (ExportResult, error)

	// Save ships the document to the remote persistence endpoint.
	Save(ctx context.Context, doc Document) (SaveResult, error)
}
