// File: controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/middleware"
	"github.com/hugsy/ctfhub/models"
)

// Register creates a new member. Registration is gated by the team API
// key so only invited people can join.
func Register(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		APIKey   string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Username == "" || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	var team models.Team
	if err := db.First(&team).Error; err != nil {
		logger.Error.Printf("Register: no team configured: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "team is not configured"})
		return
	}
	if team.APIKey != input.APIKey {
		logger.Warn.Printf("Register: wrong api key for %q", input.Username)
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid team api key"})
		return
	}

	var count int64
	db.Model(&models.Member{}).Count(&count)

	member := models.Member{
		Username: input.Username,
		Email:    input.Email,
		// first member of the team gets the admin bit
		IsAdmin: count == 0,
	}
	if err := member.HashPassword(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already taken"})
		return
	}

	logger.Info.Printf("Register: new member %q", member.Username)
	c.JSON(http.StatusCreated, member)
}

// Login authenticates a member and opens a session.
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.Member
	if err := db.Where("username = ?", input.Username).First(&member).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if !member.CheckPassword(input.Password) {
		logger.Warn.Printf("Login: failed attempt for %q", input.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionMemberKey, member.ID.String())
	if err := session.Save(); err != nil {
		logger.Error.Printf("Login: failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	logger.Info.Printf("Login: %q logged in", member.Username)
	c.JSON(http.StatusOK, member)
}

// Logout clears the session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: error saving session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
