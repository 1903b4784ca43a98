// File: controllers/challenge_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

// ListChallenges returns the challenges of a CTF, optionally filtered
// through the search-box query syntax (?q=cat:web solved:false ...).
func ListChallenges(c *gin.Context) {
	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	var challenges []models.Challenge
	err := db.
		Preload("Category").
		Preload("Tags").
		Where("ctf_id = ?", ctf.ID).
		Order("name").
		Find(&challenges).Error
	if err != nil {
		logger.Error.Printf("ListChallenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenges"})
		return
	}

	if q := services.ParseQuery(c.Query("q")); !q.IsEmpty() {
		challenges = services.FilterChallenges(challenges, q)
	}
	c.JSON(http.StatusOK, challenges)
}

// CreateChallenge adds one challenge to a CTF by hand.
func CreateChallenge(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	var input struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Points      int    `json:"points"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if input.Points < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points cannot be negative"})
		return
	}

	// single-record import path shares the bulk apply logic, so the
	// (ctf, name) uniqueness and category creation behave identically
	summary, err := importer.ApplyChallenges(&ctf, []services.ChallengeRecord{{
		Name:        input.Name,
		Category:    input.Category,
		Points:      input.Points,
		Description: input.Description,
	}})
	if err != nil {
		logger.Error.Printf("CreateChallenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create challenge"})
		return
	}
	if summary.Updated > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a challenge with this name already exists in this ctf"})
		return
	}

	var challenge models.Challenge
	if err := db.Preload("Category").
		Where("ctf_id = ? AND name = ?", ctf.ID, strings.TrimSpace(input.Name)).
		First(&challenge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create challenge"})
		return
	}

	challenge.LastUpdateByID = &member.ID
	challenge.ExcalidrawRoomID = services.NewExcalidrawRoomID()
	challenge.ExcalidrawRoomKey = services.NewExcalidrawRoomKey()
	if err := db.Save(&challenge).Error; err != nil {
		logger.Error.Printf("CreateChallenge: failed to attach room keys: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create challenge"})
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

// ImportChallenges bulk-imports a pasted payload onto a CTF.
func ImportChallenges(c *gin.Context) {
	var ctf models.Ctf
	if err := db.First(&ctf, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ctf not found"})
		return
	}

	var input struct {
		Format string `json:"format"`
		Data   string `json:"data"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := services.ImportFormat(input.Format)
	if !services.ValidFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of RAW, CTFd, rCTF"})
		return
	}

	records, skipped, err := services.ParseChallenges(format, input.Data)
	if errors.Is(err, services.ErrMalformedPayload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload could not be parsed, nothing was imported"})
		return
	}

	summary, err := importer.ApplyChallenges(&ctf, records)
	if err != nil {
		logger.Error.Printf("ImportChallenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed, nothing was persisted"})
		return
	}
	summary.Skipped += skipped

	logger.Info.Printf("ImportChallenges: %q created=%d updated=%d skipped=%d",
		ctf.Name, summary.Created, summary.Updated, summary.Skipped)
	c.JSON(http.StatusOK, summary)
}

// GetChallenge returns one challenge with its relations and
// collaboration URLs.
func GetChallenge(c *gin.Context) {
	var challenge models.Challenge
	err := db.
		Preload("Category").
		Preload("Tags").
		Preload("Solvers").
		Preload("Files").
		First(&challenge, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge":      challenge,
		"note_url":       collab.NoteURL(challenge.NoteID),
		"excalidraw_url": collab.ChallengeExcalidrawURL(&challenge),
		"jitsi_url":      collab.ChallengeJitsiURL(&challenge),
	})
}

// UpdateChallenge edits challenge fields and tags.
func UpdateChallenge(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Points      *int     `json:"points"`
		Description *string  `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		challenge.Name = strings.TrimSpace(*input.Name)
	}
	if input.Points != nil {
		if *input.Points < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "points cannot be negative"})
			return
		}
		challenge.Points = *input.Points
	}
	if input.Description != nil {
		challenge.Description = services.SanitizeDescription(*input.Description)
	}
	if input.Category != nil {
		category, err := services.GetOrCreateCategory(db, *input.Category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve category"})
			return
		}
		if category != nil {
			challenge.CategoryID = &category.ID
		}
	}
	challenge.LastUpdateByID = &member.ID

	if err := db.Save(&challenge).Error; err != nil {
		logger.Error.Printf("UpdateChallenge: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": "failed to update challenge"})
		return
	}

	if input.Tags != nil {
		var tags []models.Tag
		for _, name := range input.Tags {
			normalized := strings.ToLower(strings.TrimSpace(name))
			if normalized == "" {
				continue
			}
			var tag models.Tag
			if err := db.Where("name = ?", normalized).
				FirstOrCreate(&tag, models.Tag{Name: normalized}).Error; err != nil {
				continue
			}
			tags = append(tags, tag)
		}
		if err := db.Model(&challenge).Association("Tags").Replace(tags); err != nil {
			logger.Warn.Printf("UpdateChallenge: tag update failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, challenge)
}

// DeleteChallenge removes a challenge.
func DeleteChallenge(c *gin.Context) {
	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}
	if err := db.Delete(&challenge).Error; err != nil {
		logger.Error.Printf("DeleteChallenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete challenge"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "challenge deleted"})
}

// SetFlag records a flag for a challenge. A non-empty flag marks the
// challenge solved and credits the caller; an empty flag un-solves it.
// Scoring is rejected once the CTF is over.
func SetFlag(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var challenge models.Challenge
	if err := db.Preload("Ctf").First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	if challenge.Ctf != nil && challenge.Ctf.IsFinished(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot score when the ctf is over"})
		return
	}

	var input struct {
		Flag string `json:"flag"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warning := ""
	if input.Flag != "" && challenge.Ctf != nil && challenge.Ctf.FlagPrefix != "" &&
		!strings.HasPrefix(input.Flag, challenge.Ctf.FlagPrefix) {
		warning = "unexpected flag format: missing prefix " + challenge.Ctf.FlagPrefix
	}

	challenge.Flag = input.Flag
	challenge.LastUpdateByID = &member.ID
	if input.Flag != "" {
		now := time.Now().UTC()
		challenge.Status = models.ChallengeSolved
		challenge.SolvedTime = &now
	} else {
		challenge.Status = models.ChallengeUnsolved
		challenge.SolvedTime = nil
	}

	if err := db.Save(&challenge).Error; err != nil {
		logger.Error.Printf("SetFlag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record flag"})
		return
	}

	if input.Flag != "" {
		if err := db.Model(&challenge).Association("Solvers").Append(member); err != nil {
			logger.Warn.Printf("SetFlag: failed to record solver: %v", err)
		}
		notifier.NotifyChallengeSolved(&challenge, member)
	}

	resp := gin.H{"challenge": challenge}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// UploadChallengeFile stores one attachment for a challenge.
func UploadChallengeFile(c *gin.Context) {
	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a file field is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()

	file, err := attachments.SaveChallengeFile(&challenge, header.Filename, f)
	if err != nil {
		logger.Error.Printf("UploadChallengeFile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}
	c.JSON(http.StatusCreated, file)
}

// ListChallengeFiles returns the attachments of a challenge.
func ListChallengeFiles(c *gin.Context) {
	var files []models.ChallengeFile
	if err := db.Where("challenge_id = ?", c.Param("id")).Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	c.JSON(http.StatusOK, files)
}
