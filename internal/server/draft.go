package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
)

type draftRequest struct {
	Title   string                 `json:"title"`
	Invoice invoicedomain.Document `json:"invoice"`
}

func draftID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) createDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	draft, err := s.draftSvc.Create(c.Request.Context(), req.Title, req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

func (s *Server) listDrafts(c *gin.Context) {
	drafts, err := s.draftSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (s *Server) getDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	draft, doc, err := s.draftSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft, "invoice": doc})
}

func (s *Server) updateDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	draft, err := s.draftSvc.Update(c.Request.Context(), id, req.Title, req.Invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (s *Server) deleteDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	if err := s.draftSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
