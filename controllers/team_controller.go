// File: controllers/team_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// GetTeam returns the team profile, with its public catalog page URL
// when a CTFTime team id is configured.
func GetTeam(c *gin.Context) {
	var team models.Team
	if err := db.First(&team).Error; err != nil {
		logger.Error.Printf("GetTeam: no team configured: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "team is not configured"})
		return
	}

	resp := gin.H{"team": team}
	if team.CTFTimeID != nil {
		resp["ctftime_url"] = ctftime.TeamURL(*team.CTFTimeID)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateTeam edits the team profile. Admin only.
func UpdateTeam(c *gin.Context) {
	caller, ok := currentMember(c)
	if !ok {
		return
	}
	if !caller.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can edit the team"})
		return
	}

	var team models.Team
	if err := db.First(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "team is not configured"})
		return
	}

	var input struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		AvatarURL  *string `json:"avatar_url"`
		TwitterURL *string `json:"twitter_url"`
		GithubURL  *string `json:"github_url"`
		YoutubeURL *string `json:"youtube_url"`
		BlogURL    *string `json:"blog_url"`
		CTFTimeID  *int64  `json:"ctftime_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil && *input.Name != "" {
		team.Name = *input.Name
	}
	if input.Email != nil {
		team.Email = *input.Email
	}
	if input.AvatarURL != nil {
		team.AvatarURL = *input.AvatarURL
	}
	if input.TwitterURL != nil {
		team.TwitterURL = *input.TwitterURL
	}
	if input.GithubURL != nil {
		team.GithubURL = *input.GithubURL
	}
	if input.YoutubeURL != nil {
		team.YoutubeURL = *input.YoutubeURL
	}
	if input.BlogURL != nil {
		team.BlogURL = *input.BlogURL
	}
	if input.CTFTimeID != nil {
		team.CTFTimeID = input.CTFTimeID
	}

	if err := db.Save(&team).Error; err != nil {
		logger.Error.Printf("UpdateTeam: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update team"})
		return
	}
	c.JSON(http.StatusOK, team)
}
