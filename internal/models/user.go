package models

import "time"

// Roles carried in issued tokens.
const (
	RoleAdmin     = "admin"
	RoleAnonymous = "anonymous"
)

// User is an administrator account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=8"`
	Role      string    `json:"role" gorm:"type:varchar(32);default:admin"`
	CreatedAt time.Time `json:"created_at"`
}
