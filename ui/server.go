package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"conflictdash/internal"
	"conflictdash/internal/analysis"
	"conflictdash/internal/config"
	"conflictdash/internal/dataset"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html static/* content/*.md
var assets embed.FS

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	store     *dataset.Store
	builder   *analysis.Builder
	country   string
	templates *template.Template
	aboutCopy template.HTML
	logger    *internal.Logger
}

// NewServer wires templates, middleware and routes around a dataset store
func NewServer(store *dataset.Store, cfg *config.Config, logger *internal.Logger) (*Server, error) {
	s := &Server{
		router:  gin.New(),
		store:   store,
		builder: analysis.NewBuilder(ParamsFromConfig(cfg.Dashboard), logger),
		country: cfg.Data.CountryName,
		logger:  logger,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	if err := s.loadAboutCopy(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// ParamsFromConfig turns the configured control defaults into panel parameters
func ParamsFromConfig(cfg config.DashboardConfig) analysis.Params {
	params := analysis.DefaultParams()
	params.Thresholds = analysis.Thresholds{Events: cfg.EventsThreshold, Fatalities: cfg.FatalitiesThreshold}
	params.TopN = cfg.TopN
	params.Lowess.Fraction = cfg.LowessFraction
	params.HierarchyEpsilon = cfg.HierarchyEpsilon
	return params
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"fmtFloat": func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"fmtStat": func(v *float64) string {
			if v == nil {
				return "n/a"
			}
			return fmt.Sprintf("%.2f", *v)
		},
		"hasInt": func(values []int, v int) bool {
			for _, x := range values {
				if x == v {
					return true
				}
			}
			return false
		},
		"hasString": func(values []string, v string) bool {
			for _, x := range values {
				if x == v {
					return true
				}
			}
			return false
		},
		"sameAs": func(a, b Page) bool { return a == b },
		"upper":  strings.ToUpper,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(assets, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl
	s.logger.Debug("[TemplateInit] Parsed templates: %s", tmpl.DefinedTemplates())
	return s.verifyTemplates()
}

func (s *Server) loadAboutCopy() error {
	md, err := assets.ReadFile("content/about.md")
	if err != nil {
		return fmt.Errorf("failed to read about copy: %w", err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	s.aboutCopy = template.HTML(markdown.ToHTML(md, p, r))
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/about", s.handleAboutPage)
	s.router.GET("/dashboard", s.handleDashboardPage)

	api := s.router.Group("/api")
	api.GET("/options", s.handleOptions)
	api.GET("/about", s.handleAbout)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/panels/:name", s.handlePanel)

	s.router.GET("/healthz", s.handleHealth)
	s.router.NoRoute(func(c *gin.Context) {
		s.respondError(c, notFound(c.Request.URL.Path))
	})
}
