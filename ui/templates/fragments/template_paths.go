// Package fragments provides template name constants for the dashboard pages
package fragments

// Page templates
const (
	AboutPage     = "about.html"
	DashboardPage = "dashboard.html"
	ErrorPage     = "error.html"
)

// Shared blocks defined in layout.html
const (
	Header = "header"
	Footer = "footer"
)

// GetAllTemplatePaths returns every page template that must be present at startup
func GetAllTemplatePaths() []string {
	return []string{AboutPage, DashboardPage, ErrorPage}
}
