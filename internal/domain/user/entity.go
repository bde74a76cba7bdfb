package user

import "time"

// Role values assignable to a user.
const (
	RoleCrew  = "crew"
	RoleAdmin = "admin"
)

// User represents a crew member account. PasswordHash is a bcrypt hash and
// never leaves the service.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
