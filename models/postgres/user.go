package postgres

import (
	"time"
)

/*
 * 'User' contains the blueprint definition of a registered player.
 * Referenced by id from NameList (owner) and Game (both player slots).
 */
type User struct {
	ID           string    `gorm:"primaryKey;size:36;not null"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255"` // empty in anonymous mode
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	NameLists []NameList `gorm:"foreignKey:OwnerID"`
	GamesAsP1 []Game     `gorm:"foreignKey:Player1ID"`
	GamesAsP2 []Game     `gorm:"foreignKey:Player2ID"`
}
