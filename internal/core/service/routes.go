package service

import "github.com/colonydesk/backoffice/internal/core/domain"

var (
	adminAndManager = []domain.Role{domain.RoleSuperAdmin, domain.RoleColonyManager}
	superAdminOnly  = []domain.Role{domain.RoleSuperAdmin}
	buyerOnly       = []domain.Role{domain.RoleBuyer}
	lawyerOnly      = []domain.Role{domain.RoleLawyer}
	agentOnly       = []domain.Role{domain.RoleBrokerAgent}
)

// routeTable lists every destination. A route with no roles only requires a
// signed-in user.
var routeTable = []domain.Route{
	{Pattern: domain.PathLogin, Public: true},
	{Pattern: domain.PathRegister, Public: true},
	{Pattern: domain.PathUnauthorized, Public: true},
	{Pattern: domain.PathNotFound, Public: true},

	{Pattern: domain.PathDashboard},
	{Pattern: "/profile"},
	{Pattern: "/notifications"},

	{Pattern: "/buyer/dashboard", Roles: buyerOnly},
	{Pattern: "/buyer/colonies", Roles: buyerOnly},
	{Pattern: "/buyer/bookings", Roles: buyerOnly},

	{Pattern: "/admin/dashboard", Roles: adminAndManager},
	{Pattern: "/admin/colonies", Roles: adminAndManager},
	{Pattern: "/admin/plots", Roles: adminAndManager},
	{Pattern: "/admin/bookings", Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleColonyManager, domain.RoleSalesExecutive}},
	{Pattern: "/admin/bookings/:id", Roles: adminAndManager},
	{Pattern: "/admin/registry", Roles: adminAndManager},
	{Pattern: "/admin/commissions", Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleAccountant}},
	{Pattern: "/admin/properties", Roles: adminAndManager},
	{Pattern: "/admin/cities", Roles: superAdminOnly},
	{Pattern: "/admin/areas", Roles: superAdminOnly},
	{Pattern: "/admin/users", Roles: superAdminOnly},
	{Pattern: "/admin/staff", Roles: superAdminOnly},
	{Pattern: "/admin/land-purchase", Roles: superAdminOnly},
	{Pattern: "/admin/settings", Roles: superAdminOnly},
	{Pattern: "/admin/roles", Roles: superAdminOnly},
	{Pattern: "/admin/calculator", Roles: adminAndManager},

	{Pattern: "/lawyer/dashboard", Roles: lawyerOnly},
	{Pattern: "/lawyer/registry", Roles: lawyerOnly},

	{Pattern: "/agent/dashboard", Roles: agentOnly},
	{Pattern: "/agent/commissions", Roles: agentOnly},
}

// indexRedirects maps section roots to their landing page.
var indexRedirects = map[string]string{
	"/":       domain.PathDashboard,
	"/buyer":  "/buyer/dashboard",
	"/admin":  "/admin/dashboard",
	"/lawyer": "/lawyer/dashboard",
	"/agent":  "/agent/dashboard",
}

type menuEntry struct {
	label    string
	dest     string
	children []menuEntry
}

var superAdminMenu = []menuEntry{
	{label: "Land Purchase", dest: "/admin/colonies"},
	{label: "Properties", dest: "/admin/properties", children: []menuEntry{
		{label: "All Properties", dest: "/admin/properties"},
		{label: "All Cities", dest: "/admin/cities"},
		{label: "All Areas", dest: "/admin/areas"},
	}},
	{label: "Plots", dest: "/admin/plots"},
	{label: "Bookings", dest: "/admin/bookings"},
	{label: "Commissions", dest: "/admin/commissions"},
	{label: "Users", dest: "/admin/users"},
	{label: "Roles", dest: "/admin/roles"},
	{label: "Staff Management", dest: "/admin/staff"},
	{label: "Calculator", dest: "/admin/calculator"},
	{label: "Settings", dest: "/admin/settings"},
}

var baseMenu = []menuEntry{
	{label: "Dashboard", dest: domain.PathDashboard},
}

var roleMenus = map[domain.Role][]menuEntry{
	domain.RoleBuyer: {
		{label: "Explore Colonies", dest: "/buyer/colonies"},
		{label: "My Bookings", dest: "/buyer/bookings"},
	},
	domain.RoleSuperAdmin: superAdminMenu,
	domain.RoleColonyManager: {
		{label: "Land Purchase", dest: "/admin/colonies"},
		{label: "Plots", dest: "/admin/plots"},
		{label: "Bookings", dest: "/admin/bookings"},
		{label: "Registry", dest: "/admin/registry"},
		{label: "Calculator", dest: "/admin/calculator"},
	},
	domain.RoleLawyer: {
		{label: "Registry Documents", dest: "/lawyer/registry"},
	},
	domain.RoleBrokerAgent: {
		{label: "My Sales", dest: "/agent/dashboard"},
		{label: "Commissions", dest: "/agent/commissions"},
	},
}
