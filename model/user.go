package model

import "time"

type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
)

// IsAdmin reports whether the role grants access to the admin console.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleMasterAdmin
}

type User struct {
	ID        int        `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Password  string     `json:"-"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
