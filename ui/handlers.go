package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"slices"

	"conflictdash/domain/record"
	"conflictdash/internal/analysis"
	"conflictdash/internal/dataset"
	"conflictdash/internal/errors"
	"conflictdash/internal/filter"
	"conflictdash/ui/middleware"
	"conflictdash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// controls is a request's resolved filter state and its filtered view
type controls struct {
	Dataset   *dataset.Dataset
	Options   filter.Options
	Selection filter.Selection
	Params    analysis.Params
	View      []record.Record
}

// resolve loads the dataset and applies the request's controls to it
func (s *Server) resolve(c *gin.Context) (*controls, error) {
	ds, err := s.store.Get()
	if err != nil {
		return nil, err
	}

	opts := filter.OptionsFor(ds)
	sel, params, err := parseControls(c, opts, s.builder.Params())
	if err != nil {
		return nil, err
	}
	normalized, err := opts.Normalize(sel)
	if err != nil {
		return nil, err
	}

	return &controls{
		Dataset:   ds,
		Options:   opts,
		Selection: normalized,
		Params:    params,
		View:      filter.Apply(ds.Records(), filter.Build(normalized)),
	}, nil
}

// handleIndex serves the page chosen by ?page=, About by default
func (s *Server) handleIndex(c *gin.Context) {
	page, ok := ParsePage(c.Query("page"))
	if !ok {
		s.renderError(c, errors.NotFound("page "+c.Query("page")))
		return
	}
	switch page {
	case PageDashboard:
		s.handleDashboardPage(c)
	default:
		s.handleAboutPage(c)
	}
}

type aboutPageData struct {
	pageData
	Copy     template.HTML
	Overview analysis.Overview
}

func (s *Server) handleAboutPage(c *gin.Context) {
	ds, err := s.store.Get()
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.AboutPage, aboutPageData{
		pageData: s.newPageData(c, PageAbout),
		Copy:     s.aboutCopy,
		Overview: analysis.Describe(ds.Records(), s.country),
	})
}

type dashboardPageData struct {
	pageData
	Options   filter.Options
	Selection filter.Selection
	Params    analysis.Params
	Dashboard analysis.Dashboard
	Query     string
}

func (s *Server) handleDashboardPage(c *gin.Context) {
	ctl, err := s.resolve(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	query := c.Request.URL.Query()
	query.Del("page")
	s.renderTemplate(c, http.StatusOK, fragments.DashboardPage, dashboardPageData{
		pageData:  s.newPageData(c, PageDashboard),
		Options:   ctl.Options,
		Selection: ctl.Selection,
		Params:    ctl.Params,
		Dashboard: s.builder.WithParams(ctl.Params).Build(ctl.View),
		Query:     encodeQuery(query),
	})
}

// handleOptions returns the observed filter values and the control defaults
func (s *Server) handleOptions(c *gin.Context) {
	ds, err := s.store.Get()
	if err != nil {
		s.respondError(c, err)
		return
	}
	opts := filter.OptionsFor(ds)
	c.JSON(http.StatusOK, gin.H{
		"options":  opts,
		"defaults": opts.Defaults(),
		"params":   s.builder.Params(),
		"pages":    Pages,
		"panels":   analysis.PanelNames,
	})
}

func (s *Server) handleAbout(c *gin.Context) {
	ds, err := s.store.Get()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis.Describe(ds.Records(), s.country))
}

func (s *Server) handleDashboard(c *gin.Context) {
	ctl, err := s.resolve(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selection": ctl.Selection,
		"dashboard": s.builder.WithParams(ctl.Params).Build(ctl.View),
	})
}

func (s *Server) handlePanel(c *gin.Context) {
	name := c.Param("name")
	if !slices.Contains(analysis.PanelNames, name) {
		s.respondError(c, errors.NotFound("panel "+name))
		return
	}

	ctl, err := s.resolve(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	panel, err := s.builder.WithParams(ctl.Params).Panel(name, ctl.View)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "records": len(ctl.View), "panel": panel})
}

func (s *Server) handleHealth(c *gin.Context) {
	ds, err := s.store.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "records": ds.Len()})
}

// statusFor maps an error code to its HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidFilterRange, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeDataUnavailable, errors.CodeSchemaMismatch:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func notFound(path string) error {
	return errors.NotFound("route " + path)
}

// respondError writes the JSON error envelope
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"code":       errors.GetCode(err),
		"request_id": middleware.GetRequestID(c),
	})
}

// renderError writes the HTML error page
func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	s.renderTemplate(c, status, fragments.ErrorPage, errorData{
		pageData: s.newPageData(c, PageAbout),
		Status:   status,
		Code:     errors.GetCode(err),
		Message:  err.Error(),
	})
	c.Abort()
}

func encodeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
