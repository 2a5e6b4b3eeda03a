package ui

import (
	"bytes"
	"net/http"
	"strings"

	"conflictdash/internal/errors"
	"conflictdash/ui/middleware"
	"conflictdash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// pageData is the chrome shared by every page
type pageData struct {
	Title     string
	Country   string
	Page      Page
	Pages     []Page
	RequestID string
}

func (s *Server) newPageData(c *gin.Context, page Page) pageData {
	return pageData{
		Title:     page.Title(),
		Country:   s.country,
		Page:      page,
		Pages:     Pages,
		RequestID: middleware.GetRequestID(c),
	}
}

// errorData feeds error.html
type errorData struct {
	pageData
	Status  int
	Code    string
	Message string
}

// verifyTemplates checks that every page template was parsed
func (s *Server) verifyTemplates() error {
	for _, name := range fragments.GetAllTemplatePaths() {
		if s.templates.Lookup(name) == nil {
			return errors.InternalError("template " + name + " was not parsed")
		}
	}
	return nil
}

// renderTemplate executes a template into a buffer so a failure never leaves a partial page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[Template] Error rendering %s: %v (data %T)", templateName, err, data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("[Template] Rendered template %s appears truncated, missing </html>", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("[Template] Error writing response: %v", err)
	}
}
