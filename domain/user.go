package domain

import "time"

const RoleAdmin = "admin"

// User represents an identity known to the directory, with its home department.
type User struct {
	ID         string            `json:"id"`
	Email      string            `json:"email,omitempty"`
	Role       string            `json:"role"`
	Status     string            `json:"status"`
	Department string            `json:"department,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}

func (u *User) HasRole(role string) bool {
	return u != nil && role != "" && u.Role == role
}
