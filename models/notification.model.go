package models

import (
	"gorm.io/gorm"
)

// Notification is a progress post a creator broadcasts to every user
type Notification struct {
	gorm.Model
	Title     string `gorm:"size:100;not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	ImageURL  string `gorm:"size:255" json:"image_url"`
	CreatorID uint   `gorm:"not null;index" json:"creator_id"`

	Creator User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
