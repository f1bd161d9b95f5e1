package render

import (
	"bytes"
	"html/template"
	"regexp"

	"go.uber.org/zap"

	"github.com/mandalorian99/invoiceable/internal/invoice/format"
)

// Renderer turns a render model into an HTML preview.
type Renderer interface {
	RenderHTML(m Model) (string, error)
}

const htmlHead = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNumber}}</title>
  <style>
    :root {
      --accent: {{.AccentColor}};
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
      -webkit-font-smoothing: antialiased;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
      border-top: 4px solid var(--accent);
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header h1 {
      margin: 0;
      font-size: 24px;
      font-weight: 700;
      color: var(--accent);
    }
    .meta-grid {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value {
      font-size: 14px;
      line-height: 1.5;
      color: #1a1f36;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 30px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    td {
      padding: 16px 0;
      border-bottom: 1px solid #e3e8ee;
      font-size: 14px;
      color: #1a1f36;
      vertical-align: top;
    }
    .td-right { text-align: right; }
    .totals {
      width: 100%;
      display: flex;
      flex-direction: column;
      align-items: flex-end;
    }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 250px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-value { color: #1a1f36; text-align: right; font-weight: 500; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
      color: var(--accent);
    }
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
      white-space: pre-line;
    }
  </style>
</head>
<body>
  <div class="invoice-card">
    <div class="header">
      <div>
        <h1>Invoice</h1>
        <div class="label" style="margin-top: 12px;">Invoice number</div>
        <div class="value">{{.InvoiceNumber}}</div>
      </div>
      <div style="text-align: right;">
        <div class="label">Date issued</div>
        <div class="value">{{.Date}}</div>
        <div class="label" style="margin-top: 16px;">Date due</div>
        <div class="value">{{.DueDate}}</div>
      </div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">From</div>
        <div class="value">
          <strong>{{.From.Name}}</strong><br>
          {{.From.Email}}<br>
          {{.From.Address}}
        </div>
      </div>
      <div class="col">
        <div class="label">Bill to</div>
        <div class="value">
          <strong>{{.To.Name}}</strong><br>
          {{.To.Email}}<br>
          {{.To.Address}}
        </div>
      </div>
    </div>
`

const htmlFoot = `
    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{money $.CurrencySymbol .Subtotal}}</span>
      </div>
      {{if .TaxesEnabled}}{{range .Taxes}}
      <div class="total-row">
        <span class="total-label">{{.Name}} ({{rate .Rate .IsPercentage}})</span>
        <span class="total-value">{{money $.CurrencySymbol .Amount}}</span>
      </div>
      {{end}}{{end}}
      <div class="total-row total-final">
        <span class="total-label" style="color: inherit;">Total</span>
        <span class="total-value" style="color: inherit;">{{money $.CurrencySymbol .Total}}</span>
      </div>
    </div>

    {{if .Notes}}
    <div class="footer">{{.Notes}}</div>
    {{end}}
  </div>
</body>
</html>
`

const standardTable = `
    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Description</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Unit Price</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{quantity .Quantity}}</td>
          <td class="td-right">{{money $.CurrencySymbol .Price}}</td>
          <td class="td-right" style="font-weight: 500;">{{money $.CurrencySymbol .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
`

const freelancerTable = `
    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Service Description</th>
          <th class="td-right">Rate</th>
          <th class="td-right">Hours</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{money $.CurrencySymbol .Rate}}</td>
          <td class="td-right">{{quantity .Hours}}</td>
          <td class="td-right" style="font-weight: 500;">{{money $.CurrencySymbol .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
`

const legionTable = `
    <table>
      <thead>
        <tr>
          <th style="width: 55%;">Service Description</th>
          <th>Billing Period</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td>{{.Period}}</td>
          <td class="td-right" style="font-weight: 500;">{{money $.CurrencySymbol .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
`

const girnarTable = `
    <table>
      <thead>
        <tr>
          <th style="width: 30%;">Description</th>
          <th>HSN/SAC</th>
          <th>Resource</th>
          <th class="td-right">Days</th>
          <th class="td-right">Rate</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td>{{.HSNSAC}}</td>
          <td>{{.ResourceName}}</td>
          <td class="td-right">{{quantity .WorkedDays}}</td>
          <td class="td-right">{{money $.CurrencySymbol .Rate}}</td>
          <td class="td-right" style="font-weight: 500;">{{money $.CurrencySymbol .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// variantTables maps a template id to the line item table layout it
// uses. Ids absent here render with the standard table.
var variantTables = map[string]string{
	"modern":       standardTable,
	"minimal":      standardTable,
	"professional": standardTable,
	"freelancer":   freelancerTable,
	"legion":       legionTable,
	"girnar":       girnarTable,
}

const defaultVariant = "modern"

type HTMLRenderer struct {
	tpls map[string]*template.Template
	log  *zap.Logger
}

func NewRenderer(log *zap.Logger) Renderer {
	funcs := template.FuncMap{
		"money":    format.Money,
		"quantity": format.Quantity,
		"rate":     format.Rate,
	}

	tpls := make(map[string]*template.Template, len(variantTables))
	for id, table := range variantTables {
		tpls[id] = template.Must(
			template.New(id).Funcs(funcs).Parse(htmlHead + table + htmlFoot),
		)
	}

	return &HTMLRenderer{tpls: tpls, log: log}
}

func (r *HTMLRenderer) RenderHTML(m Model) (string, error) {
	m.AccentColor = sanitizeColor(m.AccentColor)

	tpl, ok := r.tpls[m.TemplateID]
	if !ok {
		r.log.Warn("unknown template id, rendering with default layout",
			zap.String("template_id", m.TemplateID),
			zap.String("fallback", defaultVariant),
		)
		tpl = r.tpls[defaultVariant]
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, m); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func sanitizeColor(value string) string {
	if hexColorPattern.MatchString(value) {
		return value
	}
	return "#111827"
}
