// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role names recognised by the permission rules.
const (
	// RoleOwner grants moderation rights over any content regardless of authorship.
	RoleOwner = "owner"
)

// User represents an identity in the Chatter application. The content core
// treats users as read-only; account management lives outside this service.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string    `json:"display_name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Roles        string    `gorm:"type:varchar(255);not null;default:''" json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleList splits the stored comma-separated role names.
func (u *User) RoleList() []string {
	if u.Roles == "" {
		return nil
	}
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
