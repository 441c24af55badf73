package controllers

import (
	"errors"
	"net/http"

	models "guesshow/models/postgres"
	"guesshow/services/matchmaker"

	"github.com/gin-gonic/gin"
)

/*
 * 'GameController' binds the HTTP surface to the matchmaker core. All
 * policy (id allocation, sampling, target assignment, join atomicity)
 * lives in services/matchmaker; this layer only validates the wire
 * contract and maps matchmaker errors to status codes.
 */
type GameController struct {
	Matchmaker *matchmaker.Matchmaker
}

type createGameRequest struct {
	Player1ID string `json:"player1Id"`
	ListID    string `json:"listId"`
}

func gameView(game *models.Game, targetName string) (gin.H, error) {
	names, err := matchmaker.DecodeNames(game.GameNames)
	if err != nil {
		return nil, err
	}
	view := gin.H{
		"gameId":     game.GameID,
		"player1Id":  game.Player1ID,
		"gameNames":  names,
		"targetName": targetName,
		"listId":     game.ListID,
	}
	if game.Player2ID != nil {
		view["player2Id"] = *game.Player2ID
	}
	return view, nil
}

// @Summary Create a game
// @Description Starts a matchmaking session: samples 24 names from the list and assigns player1's secret target
// @Tags games
// @Accept json
// @Produce json
// @Success 201 {object} object{gameId=string,player1Id=string,gameNames=[]string,targetName=string,listId=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /games [post]
func (gc *GameController) CreateGame(c *gin.Context) {
	if !requireJSON(c) {
		return
	}

	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Player1ID == "" || req.ListID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Player ID and list ID are required"})
		return
	}

	game, err := gc.Matchmaker.CreateGame(req.Player1ID, req.ListID)
	if err != nil {
		switch {
		case errors.Is(err, matchmaker.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		case errors.Is(err, matchmaker.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Name list not found"})
		case errors.Is(err, matchmaker.ErrListForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Name list is private"})
		case errors.Is(err, matchmaker.ErrInsufficientNames):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name list has insufficient names"})
		default:
			internalError(c, err)
		}
		return
	}

	view, err := gameView(game, game.TargetName1)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Join a game
// @Description Seats player2 in a waiting game and assigns their target, always different from player1's
// @Tags games
// @Produce json
// @Param gameId path string true "Game id"
// @Param player2Id query string true "Joining player id"
// @Success 200 {object} object{gameId=string,player1Id=string,player2Id=string,gameNames=[]string,targetName=string,listId=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /games/{gameId} [get]
func (gc *GameController) JoinGame(c *gin.Context) {
	player2ID := c.Query("player2Id")
	if player2ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Player ID is required"})
		return
	}

	game, err := gc.Matchmaker.JoinGame(c.Param("gameId"), player2ID)
	if err != nil {
		switch {
		case errors.Is(err, matchmaker.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		case errors.Is(err, matchmaker.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		case errors.Is(err, matchmaker.ErrGameFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Game already has two players"})
		default:
			internalError(c, err)
		}
		return
	}

	// The join response carries player2's own target.
	view, err := gameView(game, *game.TargetName2)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Game status
// @Description Read-only snapshot of a game; repeated calls return identical data
// @Tags games
// @Produce json
// @Param gameId path string true "Game id"
// @Success 200 {object} object{gameId=string,listId=string,player1Id=string,player2Id=string,gameNames=[]string,targetName1=string,targetName2=string,phase=string}
// @Failure 404 {object} object{error=string}
// @Router /games/{gameId}/status [get]
func (gc *GameController) GameStatus(c *gin.Context) {
	snapshot, err := gc.Matchmaker.GetStatus(c.Param("gameId"))
	if err != nil {
		if errors.Is(err, matchmaker.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
