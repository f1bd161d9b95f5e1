package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	draftdomain "github.com/mandalorian99/invoiceable/internal/draft/domain"
	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	templatedomain "github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrInvalidDocument):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: "invalid request",
		}
	case errors.Is(err, templatedomain.ErrUnknownTemplate):
		return http.StatusNotFound, errorPayload{
			Type:    "unknown_template",
			Message: "unknown template",
		}
	case errors.Is(err, templatedomain.ErrMissingTaxCalculation):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "missing_tax_calculation",
			Message: "template has no tax calculation configured",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrItemNotFound),
		errors.Is(err, invoicedomain.ErrTaxNotFound),
		errors.Is(err, draftdomain.ErrDraftNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, draftdomain.ErrDraftExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "draft already exists",
		}
	case errors.Is(err, invoicedomain.ErrExportFailed):
		return http.StatusInternalServerError, errorPayload{
			Type:    "export_failed",
			Message: "failed to generate PDF",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal_error", payload.Type
	case status == http.StatusBadRequest:
		return "validation_error", payload.Type
	default:
		return "client_error", payload.Type
	}
}
