package models

import "time"

// Registration is a player's signup for a Session.
// The primary key is a composite of (SessionID, UserID) so a player can
// never be registered twice for the same session.
type Registration struct {
	SessionID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`

	// Filled in once results are recorded after the session. Rank 1 is best.
	Rank  *int
	Score *int

	CreatedAt time.Time
	UpdatedAt time.Time

	Session Session `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User    User    `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
