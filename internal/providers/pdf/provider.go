// Package pdf generates downloadable invoice PDFs.
package pdf

import (
	"context"
	"io"

	"github.com/mandalorian99/invoiceable/internal/invoice/render"
)

// Provider generates an invoice PDF from a render model. The input is
// the same model the HTML preview renders, so the two outputs always
// agree on every amount.
type Provider interface {
	GenerateInvoice(ctx context.Context, m render.Model) (io.Reader, error)
}

// FileName names the download: invoice-{invoiceNumber}.pdf, falling
// back to the document id when the number is blank.
func FileName(invoiceNumber, documentID string) string {
	if invoiceNumber != "" {
		return "invoice-" + invoiceNumber + ".pdf"
	}
	return "invoice-" + documentID + ".pdf"
}
