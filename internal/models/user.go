package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	JSID               string    `json:"js_id" gorm:"column:js_id;size:191;not null"`
	JSIDKey            string    `json:"-" gorm:"column:js_id_key;size:191;uniqueIndex;not null"` // lower-cased js_id
	PasswordHash       string    `json:"-" gorm:"not null"`
	Role               string    `json:"role" gorm:"default:'trainer';index"` // trainer, admin
	MustChangePassword bool      `json:"must_change_password" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
}

type UserRole string

const (
	RoleTrainer UserRole = "trainer"
	RoleAdmin   UserRole = "admin"
)

// NormalizeJSID is the key external identifiers are compared by.
func NormalizeJSID(jsID string) string {
	return strings.ToLower(strings.TrimSpace(jsID))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.JSID = strings.TrimSpace(u.JSID)
	u.JSIDKey = NormalizeJSID(u.JSID)
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}
