package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginLog struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"user_id"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}
