package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	templatedomain "github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
)

type invoiceRequest struct {
	Invoice invoicedomain.Document `json:"invoice"`
}

type applyTemplateRequest struct {
	TemplateID string                 `json:"template_id"`
	Invoice    invoicedomain.Document `json:"invoice"`
}

type updateItemRequest struct {
	ItemID  string                   `json:"item_id"`
	Key     string                   `json:"key"`
	Value   invoicedomain.FieldValue `json:"value"`
	Invoice invoicedomain.Document   `json:"invoice"`
}

type removeItemRequest struct {
	ItemID  string                 `json:"item_id"`
	Invoice invoicedomain.Document `json:"invoice"`
}

type toggleTaxRequest struct {
	TaxID   string                 `json:"tax_id"`
	Enabled bool                   `json:"enabled"`
	Invoice invoicedomain.Document `json:"invoice"`
}

type documentResponse struct {
	Invoice  invoicedomain.Document `json:"invoice"`
	Computed invoicedomain.Computed `json:"computed"`
}

func (s *Server) newInvoice(c *gin.Context) {
	doc, computed, err := s.invoiceSvc.NewDocument(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) computeInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	computed, err := s.invoiceSvc.Recompute(c.Request.Context(), req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"computed": computed})
}

func (s *Server) validateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	failures, err := s.invoiceSvc.ValidateItems(c.Request.Context(), req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    len(failures) == 0,
		"failures": failures,
	})
}

func (s *Server) applyTemplate(c *gin.Context) {
	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, computed, err := s.invoiceSvc.ApplyTemplate(c.Request.Context(), req.Invoice, req.TemplateID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) addItem(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, computed, err := s.invoiceSvc.AddItem(c.Request.Context(), req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, computed, err := s.invoiceSvc.UpdateItemField(c.Request.Context(), req.Invoice, req.ItemID, req.Key, req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) removeItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, computed, err := s.invoiceSvc.RemoveItem(c.Request.Context(), req.Invoice, req.ItemID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) toggleTax(c *gin.Context) {
	var req toggleTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, computed, err := s.invoiceSvc.ToggleTax(c.Request.Context(), req.Invoice, req.TaxID, req.Enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{Invoice: doc, Computed: computed})
}

func (s *Server) renderInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	res, err := s.invoiceSvc.RenderHTML(c.Request.Context(), req.Invoice)
	if err != nil && !errors.Is(err, templatedomain.ErrMissingTaxCalculation) {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) exportInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	res, err := s.invoiceSvc.ExportPDF(c.Request.Context(), req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}

func (s *Server) saveInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	res, err := s.invoiceSvc.Save(c.Request.Context(), req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}
