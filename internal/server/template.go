package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": s.registry.List(),
		"default":   s.registry.DefaultID(),
	})
}

func (s *Server) getTemplate(c *gin.Context) {
	schema, err := s.registry.Get(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": schema})
}

func (s *Server) listTaxes(c *gin.Context) {
	templateID := strings.TrimSpace(c.Query("template_id"))
	if templateID == "" {
		c.JSON(http.StatusOK, gin.H{"taxes": s.catalog.ListAll()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"taxes": s.catalog.AvailableFor(templateID)})
}
