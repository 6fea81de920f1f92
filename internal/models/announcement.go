package models

import (
	"time"

	"gorm.io/datatypes"
)

type Announcement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsUrgent  bool      `json:"is_urgent" gorm:"default:false"`
	IsGlobal  bool      `json:"is_global" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Recipients []AnnouncementRecipient `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type AnnouncementRecipient struct {
	AnnouncementID uint `json:"announcement_id" gorm:"primaryKey"`
	UserID         uint `json:"user_id" gorm:"primaryKey"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// UserQuery is a general question an admin sends to a trainer.
type UserQuery struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	AdminID    uint      `json:"admin_id" gorm:"not null"`
	QueryText  string    `json:"query_text" gorm:"type:text;not null"`
	IsResolved bool      `json:"is_resolved" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	Action    string         `json:"action" gorm:"not null;index"`
	Details   datatypes.JSON `json:"details"`
	IPAddress *string        `json:"ip_address"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}
