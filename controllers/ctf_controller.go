// File: controllers/ctf_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

// CTFTimeFeed returns the upcoming/ongoing events of the remote catalog.
// When the catalog is unreachable the page must still render, so the
// response degrades to an empty list plus a warning instead of a 5xx.
func CTFTimeFeed(c *gin.Context) {
	events, err := ctftime.UpcomingEvents()
	if err != nil {
		logger.Warn.Printf("CTFTimeFeed: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"events":  []services.CTFTimeEvent{},
			"warning": "remote catalog is unavailable",
		})
		return
	}
	for i := range events {
		events[i].Logo = services.SafeLogoURL(events[i].Logo, "")
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ImportCtf imports one event from the remote catalog by its external
// id. Importing an id twice is an idempotent success, not an error.
func ImportCtf(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var input struct {
		CTFTimeID string `json:"ctftime_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctf, err := importer.ImportEvent(input.CTFTimeID)
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ctftime_id must be a positive integer"})
	case errors.Is(err, services.ErrAlreadyImported):
		c.JSON(http.StatusOK, gin.H{"ctf": ctf, "notice": "event was already imported"})
	case errors.Is(err, services.ErrRemoteUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote catalog is unavailable, try again later"})
	case err != nil:
		logger.Error.Printf("ImportCtf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
	default:
		ctf.CreatedByID = &member.ID
		if uerr := db.Model(ctf).Update("created_by_id", member.ID).Error; uerr != nil {
			logger.Warn.Printf("ImportCtf: failed to record creator of %s: %v", ctf.ID, uerr)
		}
		notifier.NotifyCtfCreated(ctf)
		c.JSON(http.StatusCreated, gin.H{"ctf": ctf})
	}
}

// ListCtfs returns the CTFs visible to the caller: public ones plus the
// private ones they created.
func ListCtfs(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var ctfs []models.Ctf
	err := db.
		Where("visibility = ? OR created_by_id = ?", models.VisibilityPublic, member.ID).
		Order("start_date DESC NULLS LAST").
		Find(&ctfs).Error
	if err != nil {
		logger.Error.Printf("ListCtfs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ctfs"})
		return
	}
	c.JSON(http.StatusOK, ctfs)
}

type ctfInput struct {
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	FlagPrefix   string     `json:"flag_prefix"`
	TeamLogin    string     `json:"team_login"`
	TeamPassword string     `json:"team_password"`
	Weight       float64    `json:"weight"`
	Rating       float64    `json:"rating"`
	Visibility   string     `json:"visibility"`
}

func (in *ctfInput) validate() string {
	if in.Name == "" {
		return "name is required"
	}
	if (in.StartDate == nil) != (in.EndDate == nil) {
		return "start_date and end_date must both be set or both be empty"
	}
	if in.StartDate != nil && !in.StartDate.Before(*in.EndDate) {
		return "start_date must be before end_date"
	}
	return ""
}

// CreateCtf creates an event by hand (no catalog involved).
func CreateCtf(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var input ctfInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	visibility := models.VisibilityPublic
	if input.Visibility == string(models.VisibilityPrivate) {
		visibility = models.VisibilityPrivate
	}

	// duplicate public names are almost always a double submission
	var count int64
	db.Model(&models.Ctf{}).
		Where("name = ? AND visibility = ?", input.Name, models.VisibilityPublic).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a public CTF with this name already exists"})
		return
	}

	weight := input.Weight
	if weight < 1.0 {
		weight = 1.0
	}

	ctf := models.Ctf{
		Name:         input.Name,
		URL:          input.URL,
		Description:  services.SanitizeDescription(input.Description),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		FlagPrefix:   input.FlagPrefix,
		TeamLogin:    input.TeamLogin,
		TeamPassword: input.TeamPassword,
		Weight:       weight,
		Rating:       input.Rating,
		Visibility:   visibility,
		CreatedByID:  &member.ID,
	}
	if err := db.Create(&ctf).Error; err != nil {
		logger.Error.Printf("CreateCtf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ctf"})
		return
	}

	notifier.NotifyCtfCreated(&ctf)
	c.JSON(http.StatusCreated, ctf)
}

// GetCtf returns one CTF with its challenges and collaboration URLs.
func GetCtf(c *gin.Context) {
	var ctf models.Ctf
	err := db.
		Preload("Challenges").
		Preload("Challenges.Category").
		Preload("Challenges.Tags").
		First(&ctf, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ctf":            ctf,
		"note_url":       collab.NoteURL(ctf.NoteID),
		"jitsi_url":      collab.CtfJitsiURL(&ctf),
		"total_points":   ctf.TotalPoints(),
		"scored_points":  ctf.ScoredPoints(),
		"solved_percent": ctf.SolvedPercent(),
	})
}

// UpdateCtf edits an event. Visibility may only be flipped by its
// creator.
func UpdateCtf(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	var input ctfInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if input.Visibility != "" && input.Visibility != string(ctf.Visibility) {
		if ctf.CreatedByID == nil || *ctf.CreatedByID != member.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "visibility can only be changed by the creator"})
			return
		}
		ctf.Visibility = models.Visibility(input.Visibility)
	}

	ctf.Name = input.Name
	ctf.URL = input.URL
	ctf.Description = services.SanitizeDescription(input.Description)
	ctf.StartDate = input.StartDate
	ctf.EndDate = input.EndDate
	ctf.FlagPrefix = input.FlagPrefix
	ctf.TeamLogin = input.TeamLogin
	ctf.TeamPassword = input.TeamPassword
	ctf.Weight = input.Weight
	ctf.Rating = input.Rating

	if err := db.Save(&ctf).Error; err != nil {
		logger.Error.Printf("UpdateCtf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ctf"})
		return
	}
	c.JSON(http.StatusOK, ctf)
}

// DeleteCtf soft-deletes an event. Its challenges go with it.
func DeleteCtf(c *gin.Context) {
	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}
	if err := db.Select("Challenges").Delete(&ctf).Error; err != nil {
		logger.Error.Printf("DeleteCtf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ctf"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ctf deleted"})
}

// CtfQRCode renders a QR code pointing at the event page (the CTFTime
// page when the event was imported, the event URL otherwise).
func CtfQRCode(c *gin.Context) {
	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	url := ctf.URL
	if ctf.CTFTimeID != nil {
		url = ctftime.EventURL(*ctf.CTFTimeID)
	}
	if url == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf has no public URL"})
		return
	}

	png, err := services.GenerateQRCode(url, 256)
	if err != nil {
		logger.Error.Printf("CtfQRCode: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
