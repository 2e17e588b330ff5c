package models

import "gorm.io/gorm"

// Role tiers for club members. Stored as plain strings on the user row.
const (
	RoleMember    = "member"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// MaxFavoriteGames caps how many games a member can pin to their profile.
const MaxFavoriteGames = 2

// User represents a club member.
type User struct {
	gorm.Model
	Nickname      string  `gorm:"size:255;unique;not null"`
	Email         string  `gorm:"size:255;unique;not null"`
	PasswordHash  string  `gorm:"size:255;not null"`
	Role          string  `gorm:"size:50;not null;default:'member';index"`
	FavoriteGames []*Game `gorm:"many2many:user_favorite_games;"`

	// Notification preferences for outbound push dispatch.
	NotifySessions bool `gorm:"not null;default:true"`
	NotifyGames    bool `gorm:"not null;default:true"`
}
