package domain

// Role is the caller's role as carried in the access token.
type Role string

const (
	// RoleNone means there is no decodable credential.
	RoleNone    Role = ""
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleUnknown Role = "unknown"
)

// ParseRole maps a raw claim value onto the known roles.
// Anything other than "user" or "admin" is RoleUnknown.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// IsAdmin reports whether r grants admin-only routes.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Label is the badge text shown for a role.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "User"
}
