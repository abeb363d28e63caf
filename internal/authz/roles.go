package authz

// Account roles as stored in users.role.
const (
	RoleMember  = "member"
	RoleBlocked = "blocked"
	RoleAdmin   = "admin"
)

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

func IsKnown(role string) bool {
	switch role {
	case RoleMember, RoleBlocked, RoleAdmin:
		return true
	}
	return false
}
