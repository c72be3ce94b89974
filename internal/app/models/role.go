package models

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the backend's numeric role code.
type Role int

const (
	RoleAdmin    Role = 1
	RoleUser     Role = 2
	RoleSeller   Role = 3
	RoleBuyer    Role = 4
	RoleAgent    Role = 5
	RoleInvestor Role = 6
)

const (
	RouteHome           = "/"
	RouteSignIn         = "/auth/signin"
	RouteSignUp         = "/auth/signup"
	RouteAdminDashboard = "/admin/dashboard"
	RouteAgentDashboard = "/agent/dashboard"
	RouteUserDashboard  = "/user/dashboard"
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleUser:     "user",
	RoleSeller:   "seller",
	RoleBuyer:    "buyer",
	RoleAgent:    "agent",
	RoleInvestor: "investor",
}

// roleLabels is filled once at init; a cases.Caser must not be shared
// between goroutines.
var roleLabels = func() map[Role]string {
	caser := cases.Title(language.English)
	labels := make(map[Role]string, len(roleNames))
	for r, name := range roleNames {
		labels[r] = caser.String(name)
	}
	return labels
}()

// String returns the lower-case role name, or the numeric code for unknown roles.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// Label is the display form used in navigation and dashboards.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return cases.Title(language.English).String(r.String())
}

// Valid reports whether r is one of the known role codes.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// LandingRoute maps a primary role to the screen a user lands on after login.
// Seller, buyer and investor accounts are end-users and share the user dashboard.
func LandingRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return RouteAdminDashboard
	case RoleAgent:
		return RouteAgentDashboard
	case RoleUser, RoleSeller, RoleBuyer, RoleInvestor:
		return RouteUserDashboard
	default:
		return RouteHome
	}
}
