package identity

// UserRole is the user's role
type UserRole string

const (
	// RoleClient is the default role assigned on signup and federation
	RoleClient UserRole = "CLIENT"
	// RoleAdmin manages species, users, and bookings
	RoleAdmin UserRole = "ADMIN"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanBook checks if this role can create bookings
func (r UserRole) CanBook() bool {
	switch r {
	case RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageSpecies checks if this role can curate the species catalog
func (r UserRole) CanManageSpecies() bool {
	return r == RoleAdmin
}

// CanManageUsers checks if this role can administer user accounts
func (r UserRole) CanManageUsers() bool {
	return r == RoleAdmin
}

// CanViewAdmin checks if this role can enter the admin surface
func (r UserRole) CanViewAdmin() bool {
	return r == RoleAdmin
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleClient: 0,
		RoleAdmin:  1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleClient,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
