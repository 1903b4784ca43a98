// File: controllers/member_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// ListMembers returns every registered member.
func ListMembers(c *gin.Context) {
	var members []models.Member
	if err := db.Order("username").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// GetMember returns one member profile.
func GetMember(c *gin.Context) {
	var member models.Member
	if err := db.First(&member, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember edits a member profile. Members may only edit themselves
// unless they carry the admin bit.
func UpdateMember(c *gin.Context) {
	caller, ok := currentMember(c)
	if !ok {
		return
	}

	var member models.Member
	if err := db.First(&member, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	if member.ID != caller.ID && !caller.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own profile"})
		return
	}

	var input struct {
		Description   *string `json:"description"`
		Country       *string `json:"country"`
		Timezone      *string `json:"timezone"`
		AvatarURL     *string `json:"avatar_url"`
		TwitterURL    *string `json:"twitter_url"`
		GithubURL     *string `json:"github_url"`
		BlogURL       *string `json:"blog_url"`
		SelectedCtfID *string `json:"selected_ctf_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Description != nil {
		member.Description = *input.Description
	}
	if input.Country != nil {
		member.Country = *input.Country
	}
	if input.Timezone != nil {
		member.Timezone = *input.Timezone
	}
	if input.AvatarURL != nil {
		member.AvatarURL = *input.AvatarURL
	}
	if input.TwitterURL != nil {
		member.TwitterURL = *input.TwitterURL
	}
	if input.GithubURL != nil {
		member.GithubURL = *input.GithubURL
	}
	if input.BlogURL != nil {
		member.BlogURL = *input.BlogURL
	}
	if input.SelectedCtfID != nil {
		var ctf models.Ctf
		if err := db.First(&ctf, "id = ?", *input.SelectedCtfID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "selected ctf does not exist"})
			return
		}
		member.SelectedCtfID = &ctf.ID
	}

	if err := db.Save(&member).Error; err != nil {
		logger.Error.Printf("UpdateMember: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update member"})
		return
	}
	c.JSON(http.StatusOK, member)
}
