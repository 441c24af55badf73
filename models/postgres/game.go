package postgres

import (
	"math/rand"
	"time"

	game_constants "guesshow/constants/game"

	"gorm.io/datatypes"
)

/*
 * 'Game' binds two players to a shared 24-name pool sampled from a
 * NameList, plus one secret target name per player. Player2ID and
 * TargetName2 stay NULL until the second player joins; that transition
 * happens exactly once and is never reversed.
 *
 * Both targets are stored as distinct columns so repeated status reads
 * return the same assignment instead of recomputing one on the fly.
 */
type Game struct {
	GameID      string         `gorm:"primaryKey;size:8;not null"`
	ListID      string         `gorm:"size:36;not null;index:idx_games_list"`
	Player1ID   string         `gorm:"size:36;not null"`
	Player2ID   *string        `gorm:"size:36"`
	GameNames   datatypes.JSON `gorm:"type:jsonb;not null"` // exactly 24 names
	TargetName1 string         `gorm:"size:100;not null"`
	TargetName2 *string        `gorm:"size:100"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	List    NameList `gorm:"foreignKey:ListID"`
	Player1 User     `gorm:"foreignKey:Player1ID"`
	Player2 *User    `gorm:"foreignKey:Player2ID"`
}

const digits = "0123456789"

// GenerateGameID returns a random fixed-width numeric id candidate.
// Uniqueness is not checked here: the matchmaker inserts with this id as
// primary key and retries on collision, so the check and the write are
// one atomic unit at the database.
func GenerateGameID() string {
	b := make([]byte, game_constants.GameIDLength)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
