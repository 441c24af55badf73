package controllers

import (
	"log"
	"net/http"

	"guesshow/middleware"
	models "guesshow/models/postgres"
	"guesshow/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new user. The password is optional: without one the
// account runs in anonymous mode and cannot log in later.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJSON(c) {
			return
		}

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
			return
		}

		passwordHash := ""
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				internalError(c, err)
				return
			}
			passwordHash = string(hash)
		}

		user := models.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			PasswordHash: passwordHash,
		}

		// Usernames are exact-match (case-sensitive); the unique index is
		// the duplicate check, so concurrent registrations cannot race a
		// pre-read.
		if err := db.Create(&user).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
				return
			}
			internalError(c, err)
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			log.Printf("Warning: could not issue token for %s: %v", user.Username, err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"userId":   user.ID,
			"username": user.Username,
			"token":    token,
		})
	}
}

// Login verifies credentials. Unknown user and wrong password produce the
// same 401 so the response leaks nothing about which part failed.
// Passwordless (anonymous) accounts always fail here.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJSON(c) {
			return
		}

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		if user.PasswordHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		session := sessions.Default(c)
		session.Set("userId", user.ID)
		if err := session.Save(); err != nil {
			log.Printf("Warning: could not save session for %s: %v", user.Username, err)
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			log.Printf("Warning: could not issue token for %s: %v", user.Username, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"userId":   user.ID,
			"username": user.Username,
			"token":    token,
		})
	}
}

// Logout deletes the cookie session associated with the userId key
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("userId")
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete("userId")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Me returns the user the bearer token was issued for.
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		user, err := utils.CheckUserExists(db, userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId":   user.ID,
			"username": user.Username,
		})
	}
}
