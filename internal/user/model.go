package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      Role   `json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
