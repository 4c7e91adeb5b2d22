package models

import "time"

// RoleAdmin is the only role allowed into the admin area.
const RoleAdmin = "admin"

// User is the role record for an identity-provider subject. The ID is the
// provider-assigned stable subject id, not something we mint.
type User struct {
	ID        string    `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null"`
	Role      string    `json:"role" db:"role" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the record grants admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
