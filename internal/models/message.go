package models

import "gorm.io/gorm"

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeSystem MessageType = "system"
)

// Message represents a chat message in the club room.
type Message struct {
	gorm.Model
	UserID  *uint       // Nullable for system messages
	Type    MessageType `gorm:"size:50;not null;default:'text'"`
	Content string      `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
}
