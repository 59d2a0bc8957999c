package authz

// Роли аккаунтов в системе.
const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleMember  = "MEMBER"
)

// IsStaff сообщает, имеет ли роль доступ к административным операциям.
func IsStaff(role string) bool {
	return role == RoleOwner || role == RoleManager
}
