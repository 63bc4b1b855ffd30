package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleDeveloper UserRole = "developer"
	RoleUser      UserRole = "user"
)

// roleRanks is the hierarchy table, kept outside the role type so the set of
// valid roles and their ordering stay independent. Unknown roles rank 0.
var roleRanks = map[UserRole]int{
	RoleAdmin:     3,
	RoleDeveloper: 2,
	RoleUser:      1,
}

// CompareRoles returns rank(a) - rank(b): positive when a outranks b, zero
// when equal, negative when a is subordinate.
func CompareRoles(a, b UserRole) int {
	return roleRanks[a] - roleRanks[b]
}

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r UserRole) bool {
	_, ok := roleRanks[r]
	return ok
}
