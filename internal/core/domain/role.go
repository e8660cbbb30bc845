package domain

import "strings"

// Role is the closed set of back-office roles. Raw role names coming from the
// backend are converted with ParseRole; nothing past that boundary compares
// free-form strings.
type Role string

const (
	RoleSuperAdmin     Role = "Super Admin"
	RoleColonyManager  Role = "Colony Manager"
	RoleSalesExecutive Role = "Sales Executive"
	RoleAccountant     Role = "Accountant"
	RoleBuyer          Role = "Buyer"
	RoleLawyer         Role = "Lawyer"
	RoleBrokerAgent    Role = "Broker/Agent"

	// RoleUnknown is any name the backend sends that is not mapped above.
	RoleUnknown Role = ""
)

// AllRoles lists every known role in display order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleColonyManager,
	RoleSalesExecutive,
	RoleAccountant,
	RoleBuyer,
	RoleLawyer,
	RoleBrokerAgent,
}

// roleAliases maps normalised names to roles. "admin" is the legacy spelling
// some backend builds still emit for Super Admin.
var roleAliases = map[string]Role{
	"super admin":     RoleSuperAdmin,
	"superadmin":      RoleSuperAdmin,
	"admin":           RoleSuperAdmin,
	"colony manager":  RoleColonyManager,
	"sales executive": RoleSalesExecutive,
	"accountant":      RoleAccountant,
	"buyer":           RoleBuyer,
	"lawyer":          RoleLawyer,
	"broker/agent":    RoleBrokerAgent,
	"broker":          RoleBrokerAgent,
	"agent":           RoleBrokerAgent,
}

// ParseRole maps a raw role name to a Role. Matching ignores case and
// collapses whitespace. Unmapped names return RoleUnknown and false.
func ParseRole(name string) (Role, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	key = strings.ReplaceAll(key, " / ", "/")
	r, ok := roleAliases[key]
	if !ok {
		return RoleUnknown, false
	}
	return r, true
}

// Known reports whether r is one of the mapped roles.
func (r Role) Known() bool {
	return r != RoleUnknown
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}
