package constants

const (
	Admin = "admin"
	User  = "user"
)

// ValidRoles is the set of allowed DB enum values for a user's role.
var ValidRoles = []string{User, Admin}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
