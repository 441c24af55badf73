package routes

import (
	"guesshow/controllers"
	"guesshow/middleware"
	"guesshow/services/matchmaker"
	redis_services "guesshow/services/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis_services.RedisClient) {
	gameController := &controllers.GameController{
		Matchmaker: matchmaker.New(db, redisClient),
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/users/register", controllers.Register(db))
	api.POST("/users/login", controllers.Login(db))

	api.GET("/namelists", controllers.GetNameLists(db))
	api.POST("/namelists", controllers.CreateNameList(db))
	api.PUT("/namelists/:listId", controllers.UpdateNameList(db))
	api.DELETE("/namelists/:listId", controllers.DeleteNameList(db))

	api.POST("/games", gameController.CreateGame)
	api.GET("/games/:gameId", gameController.JoinGame)
	api.GET("/games/:gameId/status", gameController.GameStatus)

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.GET("/me", controllers.Me(db))

		authentication.DELETE("/logout", controllers.Logout)
	}
}
