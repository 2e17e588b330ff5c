package models

import "gorm.io/gorm"

// Game represents one entry of the club's game catalogue.
type Game struct {
	gorm.Model
	Name            string `gorm:"size:255;not null"`
	MinPlayers      int    `gorm:"not null;default:2"`
	MaxPlayers      int    `gorm:"not null;default:4"`
	DurationMinutes int
	OwnerName       string `gorm:"size:255"` // member who brings the copy

	// External catalogue reference and the metadata fetched through it.
	CatalogRef    string `gorm:"size:100;index"`
	CoverImageURL string `gorm:"size:512"`
	Weight        *float64
	Rating        *float64

	// Derived best-score fields, maintained by the catalog syncer.
	BestScore   *int
	BestScorers string `gorm:"size:512"` // comma-joined nicknames
}
