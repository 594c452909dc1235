package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews records, manages directory, exports payroll
	RoleEmployee Role = "employee" // Clocks in and out at the assigned sede
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID        string
	Name      string
	Role      Role
	PinHash   string
	SedeID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsEmployee checks if user clocks attendance
func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}
