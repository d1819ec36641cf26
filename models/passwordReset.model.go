package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetTTL is how long an emailed reset code stays valid
const PasswordResetTTL = 15 * time.Minute

type PasswordResetCode struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
}

// Expired reports whether the code is past its expiration at t
func (p PasswordResetCode) Expired(t time.Time) bool {
	return t.After(p.ExpiresAt)
}
