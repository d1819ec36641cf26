package models

import (
	"time"

	"gorm.io/gorm"
)

type Game struct {
	gorm.Model
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	ImageURL    string     `gorm:"size:255;not null" json:"image_url"`
	FilePath    string     `gorm:"size:255" json:"file_path"`
	Genre       string     `gorm:"size:50" json:"genre"`
	Platform    string     `gorm:"size:50" json:"platform"`
	Size        string     `gorm:"size:20" json:"size"`
	Developer   string     `gorm:"size:100" json:"developer"`
	ReleaseDate *time.Time `json:"release_date"`
	CreatorID   uint       `gorm:"not null;index" json:"creator_id"`

	Creator  User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Comments []Comment `gorm:"foreignKey:GameID" json:"comments,omitempty"`
}

type Comment struct {
	gorm.Model
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	GameID  uint   `gorm:"not null;index" json:"game_id"`

	Author User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// Download records that a user fetched a game, once per pair
type Download struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex:idx_download_user_game" json:"user_id"`
	GameID uint `gorm:"not null;uniqueIndex:idx_download_user_game" json:"game_id"`

	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}
