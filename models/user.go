package models

import (
	"time"
)

// Roles assigned at registration time. The role is derived from the
// whitelist configuration, never taken from the request body.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleUser     = "user"
)

type User struct {
	ID       uint      `gorm:"primaryKey;column:id" json:"id"`
	Name     string    `gorm:"column:name" json:"name"`
	Email    string    `gorm:"column:email;unique" json:"email"`
	Password string    `gorm:"column:password" json:"-"`
	Role     string    `gorm:"column:role" json:"role"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
