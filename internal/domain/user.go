package domain

import "time"

// Role is the coarse authorization tier of a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// User is a platform account. An empty City means the city is unknown.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	Active    bool      `json:"active"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
