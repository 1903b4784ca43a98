// Package controllers contains the gin handlers for every route.
// File: controllers/controllers.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/middleware"
	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

// package-level collaborators, wired once from main
var (
	db          *gorm.DB
	ctftime     *services.CTFTimeClient
	importer    *services.ImportService
	searcher    *services.SearchService
	collab      *services.CollabService
	notifier    *services.NotifyService
	attachments *services.AttachmentService
)

// Setup injects the service instances the handlers use.
func Setup(
	database *gorm.DB,
	ctftimeClient *services.CTFTimeClient,
	importService *services.ImportService,
	searchService *services.SearchService,
	collabService *services.CollabService,
	notifyService *services.NotifyService,
	attachmentService *services.AttachmentService,
) {
	db = database
	ctftime = ctftimeClient
	importer = importService
	searcher = searchService
	collab = collabService
	notifier = notifyService
	attachments = attachmentService
}

// Health confirms the process is up.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// currentMember loads the authenticated member row, aborting with 401
// when the session points at nothing.
func currentMember(c *gin.Context) (*models.Member, bool) {
	id, ok := middleware.CurrentMemberID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}

	var member models.Member
	if err := db.First(&member, "id = ?", id).Error; err != nil {
		logger.Warn.Printf("currentMember: session member %s not found: %v", id, err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return &member, true
}
