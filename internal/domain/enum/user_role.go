package enum

// UserRole represents the role of a system user
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleCashier UserRole = "cashier"
)

// Valid checks if the role is a known value
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleCashier:
		return true
	}
	return false
}

// String returns the string representation
func (r UserRole) String() string {
	return string(r)
}
