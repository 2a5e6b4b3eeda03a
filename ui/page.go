package ui

import "strings"

// Page is the top-level navigation selector
type Page string

const (
	PageAbout     Page = "about"
	PageDashboard Page = "dashboard"
)

// Pages in navigation order
var Pages = []Page{PageAbout, PageDashboard}

// ParsePage maps a selector value to a page; an empty value is the About page
func ParsePage(value string) (Page, bool) {
	switch Page(strings.ToLower(strings.TrimSpace(value))) {
	case "", PageAbout:
		return PageAbout, true
	case PageDashboard:
		return PageDashboard, true
	}
	return "", false
}

// Title is the navigation label
func (p Page) Title() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	default:
		return "About"
	}
}

func (p Page) Path() string {
	return "/" + string(p)
}
