package models

import (
	"gorm.io/gorm"
)

// Role decides which dashboard a user lands on
type Role string

const (
	RoleUser    Role = "Usuario"
	RoleCreator Role = "Creador"
	RoleAdmin   Role = "Administrador"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// HomePath is the dashboard route for the role
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin_panel"
	case RoleCreator:
		return "/home_creador"
	default:
		return "/home_usuario"
	}
}

type User struct {
	gorm.Model
	Username string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Document string `gorm:"size:20;uniqueIndex;not null" json:"document"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'Usuario'" json:"role"`

	Games []Game `gorm:"foreignKey:CreatorID" json:"games,omitempty"`
}
