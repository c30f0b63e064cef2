package domain

// Principal is the caller an API token was issued to.
type Principal struct {
	Subject string
	Role    Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleOperator can open accounts and record events
	RoleOperator Role = "operator"

	// RoleViewer can only read accounts and statistics
	RoleViewer Role = "viewer"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleOperator || r == RoleViewer
}

// CanWrite checks if the role can mutate account timelines
func (r Role) CanWrite() bool {
	return r == RoleOperator
}
