package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the persisted identity record. The password hash, the pending
// OTP and the stored refresh token never cross the system boundary, so
// they are excluded from every JSON representation.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	Password     string    `json:"-"`
	OTP          *int      `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	RefreshToken *string   `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
