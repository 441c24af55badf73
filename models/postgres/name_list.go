package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'NameList' defines a curated pool of candidate names that games are
 * sampled from. Owned lists are mutable by their owner only; a list
 * referenced by any game cannot be deleted while that game exists.
 */
type NameList struct {
	ID        string         `gorm:"primaryKey;size:36;not null"`
	ListName  string         `gorm:"size:100;not null"`
	Names     datatypes.JSON `gorm:"type:jsonb;not null"` // string array, at least 24 entries
	OwnerID   *string        `gorm:"size:36;index:idx_name_lists_owner"`
	IsPublic  bool           `gorm:"default:true;index:idx_name_lists_public"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Owner *User  `gorm:"foreignKey:OwnerID"`
	Games []Game `gorm:"foreignKey:ListID"`
}
