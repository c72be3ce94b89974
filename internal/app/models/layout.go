package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	Session   *Session
	Nav       Navigation
	ActiveNav string
	Toasts    []Toast
	Content   templ.Component
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Listings", URL: RouteHome},
		{Name: "Sign In", URL: RouteSignIn},
		{Name: "Sign Up", URL: RouteSignUp},
	},
}

var AdminNav = Navigation{
	Items: []NavItem{
		{Name: "Listings", URL: RouteHome},
		{Name: "Dashboard", URL: RouteAdminDashboard},
		{Name: "Agents", URL: RouteAdminDashboard + "#agents"},
		{Name: "Clients", URL: RouteAdminDashboard + "#clients"},
	},
}

var AgentNav = Navigation{
	Items: []NavItem{
		{Name: "Listings", URL: RouteHome},
		{Name: "Dashboard", URL: RouteAgentDashboard},
		{Name: "Messages", URL: RouteAgentDashboard + "#messages"},
	},
}

var UserNav = Navigation{
	Items: []NavItem{
		{Name: "Listings", URL: RouteHome},
		{Name: "Dashboard", URL: RouteUserDashboard},
	},
}

// NavFor picks the navigation bar for the given session; nil means signed out.
func NavFor(s *Session) Navigation {
	if s == nil {
		return OfflineNav
	}
	switch LandingRoute(s.PrimaryRole()) {
	case RouteAdminDashboard:
		return AdminNav
	case RouteAgentDashboard:
		return AgentNav
	default:
		return UserNav
	}
}
