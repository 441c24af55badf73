package utils

import (
	"errors"
	"fmt"

	models "guesshow/models/postgres"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (duplicate username, colliding game id, ...).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CheckUserExists fetches a user by id.
func CheckUserExists(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CheckListExists fetches a name list by id. The gorm error is returned
// as-is so callers can map ErrRecordNotFound to their own status.
func CheckListExists(db *gorm.DB, listID string) (*models.NameList, error) {
	var list models.NameList
	if err := db.Where("id = ?", listID).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// CountGamesForList reports how many stored games reference a list. A
// list with a nonzero count cannot be deleted.
func CountGamesForList(db *gorm.DB, listID string) (int64, error) {
	var count int64
	err := db.Model(&models.Game{}).
		Where("list_id = ?", listID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
