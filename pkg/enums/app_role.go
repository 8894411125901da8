package enums

import "fmt"

// AppRole represents a team member's portal role.
type AppRole string

const (
	AppRoleAdmin            AppRole = "admin"
	AppRoleMarketingManager AppRole = "marketing_manager"
	AppRoleCoder            AppRole = "coder"
)

var validAppRoles = []AppRole{
	AppRoleAdmin,
	AppRoleMarketingManager,
	AppRoleCoder,
}

// String implements fmt.Stringer.
func (r AppRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AppRole.
func (r AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Label returns the display name used in rosters.
func (r AppRole) Label() string {
	switch r {
	case AppRoleAdmin:
		return "Admin"
	case AppRoleMarketingManager:
		return "Marketing"
	case AppRoleCoder:
		return "Coder"
	default:
		return "Unknown"
	}
}

// ParseAppRole converts raw input into an AppRole.
func ParseAppRole(value string) (AppRole, error) {
	for _, candidate := range validAppRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}
