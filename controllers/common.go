package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// requireJSON rejects non-JSON bodies with 415 before any binding or
// store access. Returns false when the request was already answered.
func requireJSON(c *gin.Context) bool {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Request must be JSON"})
		return false
	}
	return true
}

// internalError logs the cause and answers with a generic 500. Raw
// storage errors are never echoed to clients.
func internalError(c *gin.Context, err error) {
	log.Printf("Internal error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
