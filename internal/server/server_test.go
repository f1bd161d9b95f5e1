package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mandalorian99/invoiceable/internal/config"
	draftrepository "github.com/mandalorian99/invoiceable/internal/draft/repository"
	draftservice "github.com/mandalorian99/invoiceable/internal/draft/service"
	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	"github.com/mandalorian99/invoiceable/internal/invoice/render"
	invoiceservice "github.com/mandalorian99/invoiceable/internal/invoice/service"
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate"
	"github.com/mandalorian99/invoiceable/internal/observability"
	obsmetrics "github.com/mandalorian99/invoiceable/internal/observability/metrics"
	"github.com/mandalorian99/invoiceable/internal/providers/pdf"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

type stubSink struct {
	result invoicedomain.SaveResult
}

func (s *stubSink) Save(ctx context.Context, doc invoicedomain.Document) invoicedomain.SaveResult {
	return s.result
}

func newTestServer(t *testing.T, sinkResult invoicedomain.SaveResult) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	catalog := tax.NewCatalog()
	registry, err := invoicetemplate.NewRegistry(catalog)
	require.NoError(t, err)

	log := zap.NewNop()
	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		Log:      log,
		GenID:    node,
		Registry: registry,
		Renderer: render.NewRenderer(log),
		PDF:      pdf.New(),
		Sink:     &stubSink{result: sinkResult},
	})

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, draftrepository.Migrate(gdb))
	draftSvc := draftservice.NewService(draftservice.ServiceParam{
		Log:   log,
		GenID: node,
		Repo:  draftrepository.New(gdb),
	})

	engine := NewEngine(observability.Config{}, obsmetrics.New(prometheus.NewRegistry()))
	srv := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		InvoiceSvc: invoiceSvc,
		DraftSvc:   draftSvc,
		Registry:   registry,
		Catalog:    catalog,
	})
	srv.RegisterAPIRoutes()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func computeBody(templateID string) map[string]any {
	return map[string]any{
		"invoice": map[string]any{
			"template": templateID,
			"items": []map[string]any{
				{"id": "1", "description": "Design work", "quantity": 3, "price": 10},
			},
		},
	}
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListTemplates(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
		Default string `json:"default"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "modern", res.Default)
	require.Len(t, res.Templates, 6)
	assert.Equal(t, "modern", res.Templates[0].ID)
}

func TestGetTemplateUnknown(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/api/templates/no-such", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var res errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "unknown_template", res.Error.Type)
}

func TestListTaxesForTemplate(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/api/taxes?template_id=modern", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Taxes []struct {
			ID string `json:"id"`
		} `json:"taxes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	ids := make([]string, 0, len(res.Taxes))
	for _, tx := range res.Taxes {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"vat", "gst", "sales"}, ids)
}

func TestNewInvoice(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/api/invoices/new", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Invoice struct {
			InvoiceNumber string `json:"invoice_number"`
			Template      string `json:"template"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "INV-001", res.Invoice.InvoiceNumber)
	assert.Equal(t, "modern", res.Invoice.Template)
}

func TestComputeInvoice(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodPost, "/api/invoices/compute", computeBody("modern"))
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Computed struct {
			Subtotal float64 `json:"subtotal"`
			Total    float64 `json:"total"`
		} `json:"computed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 30.0, res.Computed.Subtotal)
	assert.Equal(t, 30.0, res.Computed.Total)
}

func TestComputeInvoiceRejectsBadBody(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/compute", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyTemplateUnknown(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	body := map[string]any{
		"template_id": "no-such",
		"invoice":     computeBody("modern")["invoice"],
	}
	w := doJSON(t, engine, http.MethodPost, "/api/invoices/apply-template", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItemRecomputesTotals(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	body := map[string]any{
		"item_id": "1",
		"key":     "quantity",
		"value":   5,
		"invoice": computeBody("modern")["invoice"],
	}
	w := doJSON(t, engine, http.MethodPost, "/api/invoices/update-item", body)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Computed struct {
			Subtotal float64 `json:"subtotal"`
		} `json:"computed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 50.0, res.Computed.Subtotal)
}

func TestRemoveItemUnknownID(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	body := map[string]any{
		"item_id": "no-such-item",
		"invoice": computeBody("modern")["invoice"],
	}
	w := doJSON(t, engine, http.MethodPost, "/api/invoices/remove-item", body)
	require.Equal(t, http.StatusNotFound, w.Code)

	var res errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "not_found", res.Error.Type)
}

func TestToggleTax(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	invoice := computeBody("modern")["invoice"].(map[string]any)
	invoice["tax_enabled"] = true
	invoice["taxes"] = []map[string]any{
		{"id": "vat", "name": "VAT", "rate": 20, "is_percentage": true, "enabled": false},
	}
	body := map[string]any{
		"tax_id":  "vat",
		"enabled": true,
		"invoice": invoice,
	}
	w := doJSON(t, engine, http.MethodPost, "/api/invoices/toggle-tax", body)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Computed struct {
			TaxAmount float64 `json:"tax_amount"`
			Total     float64 `json:"total"`
		} `json:"computed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 6.0, res.Computed.TaxAmount)
	assert.Equal(t, 36.0, res.Computed.Total)
}

func TestExportInvoice(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	body := computeBody("modern")
	body["invoice"].(map[string]any)["invoice_number"] = "INV-042"

	w := doJSON(t, engine, http.MethodPost, "/api/invoices/export", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-INV-042.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestSaveInvoiceFailure(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{
		Success: false,
		Message: "Failed to save invoice. Please try again.",
	})

	w := doJSON(t, engine, http.MethodPost, "/api/invoices/save", computeBody("modern"))
	require.Equal(t, http.StatusBadGateway, w.Code)

	var res invoicedomain.SaveResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to save invoice. Please try again.", res.Message)
}

func TestDraftLifecycle(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})

	body := map[string]any{
		"title":   "client work",
		"invoice": computeBody("modern")["invoice"],
	}
	w := doJSON(t, engine, http.MethodPost, "/api/drafts", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Draft struct {
			ID string `json:"id"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Draft.ID)

	w = doJSON(t, engine, http.MethodGet, "/api/drafts/"+created.Draft.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Invoice struct {
			Template string `json:"template"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "modern", got.Invoice.Template)

	w = doJSON(t, engine, http.MethodDelete, "/api/drafts/"+created.Draft.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/drafts/"+created.Draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftInvalidID(t *testing.T) {
	engine := newTestServer(t, invoicedomain.SaveResult{Success: true})
	w := doJSON(t, engine, http.MethodGet, "/api/drafts/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
