package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Anything else is rejected at the
// account layer before it reaches storage.
type Role string

const (
	RoleLearner    Role = "learner"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// UserStatus values. Suspended users authenticate but are refused everywhere
// past the auth middleware.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserSuspended
}

type User struct {
	gorm.Model
	Username     string     `gorm:"unique;not null" json:"username"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `gorm:"type:varchar(20);default:learner" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:active" json:"status"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"user_id"`
	LoginTime time.Time `json:"login_time"`
}
