// Package domain contains the invoice document model: the mutable data
// the user edits through the builder form.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mandalorian99/invoiceable/internal/tax"
)

// Party is one side of the invoice (issuer or recipient).
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// FieldKind tags the value stored under a dynamic item field key.
type FieldKind string

const (
	KindNumber FieldKind = "number"
	KindText   FieldKind = "text"
)

// FieldValue is a tagged number-or-text value. Dates are carried as
// text in the form's YYYY-MM-DD shape.
type FieldValue struct {
	Kind FieldKind
	Num  float64
	Text string
}

func Number(v float64) FieldValue { return FieldValue{Kind: KindNumber, Num: v} }
func Text(v string) FieldValue    { return FieldValue{Kind: KindText, Text: v} }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumber {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Text)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Number(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field value must be a number or a string: %w", err)
	}
	*v = Text(s)
	return nil
}

// LineItem is one invoice line. Fields holds the dynamic per-template
// values keyed by the active schema's field keys; Amount is the derived
// line total and is always re-derived, never edited directly.
type LineItem struct {
	ID     string
	Amount float64
	Fields map[string]FieldValue
}

// Number implements the schema's item view. Absent or non-numeric keys
// read as zero.
func (i LineItem) Number(key string) float64 {
	if v, ok := i.Fields[key]; ok && v.Kind == KindNumber {
		return v.Num
	}
	return 0
}

// Text implements the schema's item view.
func (i LineItem) Text(key string) string {
	if v, ok := i.Fields[key]; ok && v.Kind == KindText {
		return v.Text
	}
	return ""
}

// Has reports whether the field key is populated on this item.
func (i LineItem) Has(key string) bool {
	_, ok := i.Fields[key]
	return ok
}

// SetField stores a dynamic field value.
func (i *LineItem) SetField(key string, v FieldValue) {
	if i.Fields == nil {
		i.Fields = make(map[string]FieldValue)
	}
	i.Fields[key] = v
}

// Clone deep-copies the item.
func (i LineItem) Clone() LineItem {
	out := LineItem{ID: i.ID, Amount: i.Amount}
	if i.Fields != nil {
		out.Fields = make(map[string]FieldValue, len(i.Fields))
		for k, v := range i.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// MarshalJSON flattens the item to the wire shape the builder UI and
// the save endpoint expect: {"id": ..., "amount": ..., <field>: ...}.
// The derived Amount wins over any raw "amount" field entry.
func (i LineItem) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(i.Fields)+2)
	for k, v := range i.Fields {
		if k == "amount" {
			continue
		}
		flat[k] = v
	}
	flat["id"] = i.ID
	flat["amount"] = i.Amount
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat wire shape back into the tagged field
// map. The incoming amount is kept both as the derived Amount and as a
// field entry so direct-amount schemas can read it.
func (i *LineItem) UnmarshalJSON(data []byte) error {
	var flat map[string]FieldValue
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	item := LineItem{Fields: make(map[string]FieldValue, len(flat))}
	for k, v := range flat {
		switch k {
		case "id":
			// Some clients send numeric item ids.
			if v.Kind == KindNumber {
				item.ID = strconv.FormatFloat(v.Num, 'f', -1, 64)
			} else {
				item.ID = v.Text
			}
		case "amount":
			item.Amount = v.Num
			item.Fields[k] = v
		default:
			item.Fields[k] = v
		}
	}
	*i = item
	return nil
}

// Document is the root aggregate: it owns its items and taxes by value.
// The form layer mutates it field by field; template switches replace
// items and taxes wholesale.
type Document struct {
	ID             string     `json:"id"`
	InvoiceNumber  string     `json:"invoice_number"`
	Date           string     `json:"date"`
	DueDate        string     `json:"due_date"`
	From           Party      `json:"from"`
	To             Party      `json:"to"`
	Items          []LineItem `json:"items"`
	Notes          string     `json:"notes"`
	TemplateID     string     `json:"template"`
	CurrencySymbol string     `json:"currency_symbol"`
	Taxes          []tax.Line `json:"taxes"`
	TaxesEnabled   bool       `json:"tax_enabled"`
}

// Clone deep-copies the document so in-flight export/save operations
// never share mutable state with the live document.
func (d Document) Clone() Document {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	for idx, item := range d.Items {
		out.Items[idx] = item.Clone()
	}
	out.Taxes = make([]tax.Line, len(d.Taxes))
	copy(out.Taxes, d.Taxes)
	return out
}

// Item returns a pointer to the item with the given id.
func (d *Document) Item(id string) (*LineItem, bool) {
	for idx := range d.Items {
		if d.Items[idx].ID == id {
			return &d.Items[idx], true
		}
	}
	return nil, false
}

// RemoveItem deletes the item with the given id, preserving order.
func (d *Document) RemoveItem(id string) bool {
	for idx := range d.Items {
		if d.Items[idx].ID == id {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			return true
		}
	}
	return false
}

// TaxLine returns a pointer to the applied tax with the given id.
func (d *Document) TaxLine(id string) (*tax.Line, bool) {
	for idx := range d.Taxes {
		if d.Taxes[idx].ID == id {
			return &d.Taxes[idx], true
		}
	}
	return nil, false
}

// DateFormat is the form-facing date layout.
const DateFormat = "2006-01-02"

// DefaultDueDate is the issue date plus the standard 30-day term.
func DefaultDueDate(date time.Time) string {
	return date.AddDate(0, 0, 30).Format(DateFormat)
}
