package models

import (
	"time"

	"gorm.io/gorm"
)

// Session represents one scheduled play of a Game.
type Session struct {
	gorm.Model
	GameID      uint      `gorm:"not null;index"`
	OrganizerID uint      `gorm:"not null"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Location    string    `gorm:"size:255"`
	Description string

	// Capacity is copied from the game's max player count at creation time.
	// RegistrantCount is maintained by the session service on every
	// registration change.
	Capacity        int `gorm:"not null"`
	RegistrantCount int `gorm:"not null;default:0"`

	Game      Game `gorm:"foreignKey:GameID"`
	Organizer User `gorm:"foreignKey:OrganizerID"`
}
