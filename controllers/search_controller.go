// File: controllers/search_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Search runs the global free-text search across every entity kind.
func Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	results := searcher.Search(q)
	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"count":   len(results),
		"results": results,
	})
}
