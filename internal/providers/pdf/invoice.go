package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/mandalorian99/invoiceable/internal/invoice/format"
	"github.com/mandalorian99/invoiceable/internal/invoice/render"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

// column describes one line item column: its header, width in grid
// units, and how to extract the cell value from an item.
type column struct {
	header string
	size   int
	right  bool
	value  func(m render.Model, it render.Item) string
}

func descCol(size int) column {
	return column{"Description", size, false, func(_ render.Model, it render.Item) string {
		return it.Description
	}}
}

func amountCol() column {
	return column{"Amount", 2, true, func(m render.Model, it render.Item) string {
		return format.Money(m.CurrencySymbol, it.Amount)
	}}
}

var standardColumns = []column{
	descCol(6),
	{"Qty", 2, true, func(_ render.Model, it render.Item) string {
		return format.Quantity(it.Quantity)
	}},
	{"Unit price", 2, true, func(m render.Model, it render.Item) string {
		return format.Money(m.CurrencySymbol, it.Price)
	}},
	amountCol(),
}

var freelancerColumns = []column{
	descCol(6),
	{"Rate", 2, true, func(m render.Model, it render.Item) string {
		return format.Money(m.CurrencySymbol, it.Rate)
	}},
	{"Hours", 2, true, func(_ render.Model, it render.Item) string {
		return format.Quantity(it.Hours)
	}},
	amountCol(),
}

var legionColumns = []column{
	descCol(7),
	{"Billing period", 3, false, func(_ render.Model, it render.Item) string {
		return it.Period
	}},
	amountCol(),
}

var girnarColumns = []column{
	descCol(3),
	{"HSN/SAC", 2, false, func(_ render.Model, it render.Item) string {
		return it.HSNSAC
	}},
	{"Resource", 2, false, func(_ render.Model, it render.Item) string {
		return it.ResourceName
	}},
	{"Days", 1, true, func(_ render.Model, it render.Item) string {
		return format.Quantity(it.WorkedDays)
	}},
	{"Rate", 2, true, func(m render.Model, it render.Item) string {
		return format.Money(m.CurrencySymbol, it.Rate)
	}},
	amountCol(),
}

func columnsFor(templateID string) []column {
	switch templateID {
	case "freelancer":
		return freelancerColumns
	case "legion":
		return legionColumns
	case "girnar":
		return girnarColumns
	default:
		return standardColumns
	}
}

func (p *MarotoProvider) GenerateInvoice(ctx context.Context, data render.Model) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Invoice number: "+data.InvoiceNumber, props.Text{Top: 0, Size: 9}),
			text.New("Date of issue: "+data.Date, props.Text{Top: 4, Size: 9}),
			text.New("Date due: "+data.DueDate, props.Text{Top: 8, Size: 9}),
		),
		col.New(6),
	)

	m.AddRow(34,
		col.New(6).Add(
			text.New("From", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.From.Name, props.Text{Top: 5, Size: 9}),
			text.New(data.From.Email, props.Text{Top: 9, Size: 9}),
			text.New(data.From.Address, props.Text{Top: 13, Size: 9}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.To.Name, props.Text{Top: 5, Size: 9}),
			text.New(data.To.Email, props.Text{Top: 9, Size: 9}),
			text.New(data.To.Address, props.Text{Top: 13, Size: 9}),
		),
	)

	cols := columnsFor(data.TemplateID)

	headerRow := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		tp := props.Text{Style: fontstyle.Bold, Size: 9}
		if c.right {
			tp.Align = align.Right
		}
		headerRow = append(headerRow, text.NewCol(c.size, c.header, tp))
	}
	m.AddRow(10, headerRow...)

	for _, item := range data.Items {
		row := make([]core.Col, 0, len(cols))
		for _, c := range cols {
			tp := props.Text{Size: 9}
			if c.right {
				tp.Align = align.Right
			}
			row = append(row, text.NewCol(c.size, c.value(data, item), tp))
		}
		m.AddRow(12, row...)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, format.Money(data.CurrencySymbol, data.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	if data.TaxesEnabled {
		for _, line := range data.Taxes {
			m.AddRow(10,
				col.New(8),
				text.NewCol(2, line.Name+" ("+format.Rate(line.Rate, line.IsPercentage)+")", props.Text{Size: 9}),
				text.NewCol(2, format.Money(data.CurrencySymbol, line.Amount), props.Text{Size: 9, Align: align.Right}),
			)
		}
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, format.Money(data.CurrencySymbol, data.Total), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, data.Notes, props.Text{Size: 8, Top: 6}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
