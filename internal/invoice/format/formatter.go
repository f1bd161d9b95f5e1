// Package format holds pure display formatting for invoices: money,
// quantities, and invoice numbers.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultInvoiceNumberTemplate matches the builder's INV-001 style.
const DefaultInvoiceNumberTemplate = "INV-{SEQ3}"

// InvoiceNumber formats a human-readable invoice number from a token
// template, the issue time, and a monotonic sequence.
//
// This function is PURE: no side effects, fully deterministic.
func InvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	// Final safety check: unresolved tokens
	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice number format: %s", out)
	}

	return out, nil
}

// Money renders an amount with the document's currency symbol.
func Money(symbol string, amount float64) string {
	if strings.TrimSpace(symbol) == "" {
		symbol = "$"
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

// Quantity trims trailing zeros so 2.50 reads as 2.5 and 3.00 as 3.
func Quantity(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}

// Rate renders a tax rate: percentage rates get a % suffix, flat rates
// read as plain amounts.
func Rate(rate float64, isPercentage bool) string {
	if isPercentage {
		return Quantity(rate) + "%"
	}
	return Quantity(rate)
}
