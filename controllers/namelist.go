package controllers

import (
	"errors"
	"net/http"

	game_constants "guesshow/constants/game"
	models "guesshow/models/postgres"
	"guesshow/services/matchmaker"
	"guesshow/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errListInUse = errors.New("name list is in use")

type createNameListRequest struct {
	ListName string   `json:"listName"`
	Names    []string `json:"names"`
	OwnerID  *string  `json:"ownerId"`
	IsPublic *bool    `json:"isPublic"`
}

type updateNameListRequest struct {
	OwnerID  string    `json:"ownerId"`
	ListName *string   `json:"listName"`
	Names    *[]string `json:"names"`
	IsPublic *bool     `json:"isPublic"`
}

func nameListView(list *models.NameList) (gin.H, error) {
	names, err := matchmaker.DecodeNames(list.Names)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"listId":   list.ID,
		"listName": list.ListName,
		"names":    names,
		"ownerId":  list.OwnerID,
		"isPublic": list.IsPublic,
	}, nil
}

// @Summary List name lists
// @Description Returns all public name lists, plus the private lists of the requesting user when userId is given
// @Tags namelists
// @Produce json
// @Param userId query string false "Requesting user id"
// @Success 200 {array} object{listId=string,listName=string,names=[]string,ownerId=string,isPublic=bool}
// @Router /namelists [get]
func GetNameLists(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_public = ?", true)
		if userID := c.Query("userId"); userID != "" {
			query = db.Where("is_public = ? OR owner_id = ?", true, userID)
		}

		var lists []models.NameList
		if err := query.Find(&lists).Error; err != nil {
			internalError(c, err)
			return
		}

		result := make([]gin.H, 0, len(lists))
		for i := range lists {
			view, err := nameListView(&lists[i])
			if err != nil {
				internalError(c, err)
				return
			}
			result = append(result, view)
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Create a name list
// @Description Creates a new name list with at least 24 names
// @Tags namelists
// @Accept json
// @Produce json
// @Success 201 {object} object{listId=string,listName=string,names=[]string,ownerId=string,isPublic=bool}
// @Failure 400 {object} object{error=string}
// @Failure 415 {object} object{error=string}
// @Router /namelists [post]
func CreateNameList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJSON(c) {
			return
		}

		var req createNameListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.ListName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "List name is required"})
			return
		}
		if len(req.Names) < game_constants.GameNamesCount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "List must contain at least 24 names"})
			return
		}
		if req.OwnerID != nil {
			if _, err := utils.CheckUserExists(db, *req.OwnerID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Owner not found"})
				return
			}
		}

		encoded, err := matchmaker.EncodeNames(req.Names)
		if err != nil {
			internalError(c, err)
			return
		}

		isPublic := true
		if req.IsPublic != nil {
			isPublic = *req.IsPublic
		}

		list := models.NameList{
			ID:       uuid.NewString(),
			ListName: req.ListName,
			Names:    encoded,
			OwnerID:  req.OwnerID,
			IsPublic: isPublic,
		}
		if err := db.Create(&list).Error; err != nil {
			internalError(c, err)
			return
		}

		view, err := nameListView(&list)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

// @Summary Update a name list
// @Description Partially updates a name list; only the owner may update, and the name array can never shrink below 24 entries
// @Tags namelists
// @Accept json
// @Produce json
// @Param listId path string true "List id"
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /namelists/{listId} [put]
func UpdateNameList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJSON(c) {
			return
		}

		var req updateNameListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.OwnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Owner ID is required"})
			return
		}

		list, err := utils.CheckListExists(db, c.Param("listId"))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Name list not found"})
				return
			}
			internalError(c, err)
			return
		}
		if list.OwnerID == nil || *list.OwnerID != req.OwnerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can update this list"})
			return
		}

		// Validate everything before writing anything: a rejected update
		// must leave the stored list untouched.
		updates := map[string]interface{}{}
		if req.ListName != nil {
			if *req.ListName == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "List name cannot be empty"})
				return
			}
			updates["list_name"] = *req.ListName
			list.ListName = *req.ListName
		}
		if req.Names != nil {
			if len(*req.Names) < game_constants.GameNamesCount {
				c.JSON(http.StatusBadRequest, gin.H{"error": "List must contain at least 24 names"})
				return
			}
			encoded, err := matchmaker.EncodeNames(*req.Names)
			if err != nil {
				internalError(c, err)
				return
			}
			updates["names"] = encoded
			list.Names = encoded
		}
		if req.IsPublic != nil {
			updates["is_public"] = *req.IsPublic
			list.IsPublic = *req.IsPublic
		}

		if len(updates) > 0 {
			if err := db.Model(&models.NameList{}).Where("id = ?", list.ID).Updates(updates).Error; err != nil {
				internalError(c, err)
				return
			}
		}

		view, err := nameListView(list)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary Delete a name list
// @Description Deletes an owned name list, unless any game still references it
// @Tags namelists
// @Produce json
// @Param listId path string true "List id"
// @Param ownerId query string true "Owner id"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /namelists/{listId} [delete]
func DeleteNameList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.Query("ownerId")
		if ownerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Owner ID is required"})
			return
		}
		listID := c.Param("listId")

		// The in-use check and the delete run in one transaction so a
		// game created concurrently cannot orphan its list reference.
		err := db.Transaction(func(tx *gorm.DB) error {
			list, err := utils.CheckListExists(tx, listID)
			if err != nil {
				return err
			}
			// Non-owners get the same 404 as a missing list.
			if list.OwnerID == nil || *list.OwnerID != ownerID {
				return gorm.ErrRecordNotFound
			}

			count, err := utils.CountGamesForList(tx, list.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				return errListInUse
			}

			return tx.Delete(&models.NameList{}, "id = ?", list.ID).Error
		})

		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Name list deleted"})
		case err == gorm.ErrRecordNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Name list not found"})
		case err == errListInUse:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name list is in use by an existing game"})
		default:
			internalError(c, err)
		}
	}
}
