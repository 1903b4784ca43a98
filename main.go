// main.go
package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/config"
	"github.com/hugsy/ctfhub/controllers"
	"github.com/hugsy/ctfhub/database"
	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/middleware"
	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("config: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Connect(cfg.DBURL); err != nil {
		logger.Error.Fatalf("database: %v", err)
	}
	if err := ensureTeam(database.DB); err != nil {
		logger.Error.Fatalf("team bootstrap: %v", err)
	}

	// services
	ctftime := services.NewCTFTimeClient(cfg.CTFTimeAPIURL, cfg.HTTPTimeout)
	importer := services.NewImportService(database.DB, ctftime)
	searcher := services.NewSearchService(database.DB, ctftime)
	collab := services.NewCollabService(cfg.HedgeDocURL, cfg.ExcalidrawURL, cfg.JitsiURL)
	notifier := services.NewNotifyService(cfg.DiscordWebhookURL, cfg.HTTPTimeout)

	storage, err := services.NewStorage(cfg.StorageBackend, cfg.StorageDir, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		logger.Error.Fatalf("storage: %v", err)
	}
	attachments := services.NewAttachmentService(database.DB, storage)

	controllers.Setup(database.DB, ctftime, importer, searcher, collab, notifier, attachments)

	router := gin.Default()

	// session store
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("ctfhub", store))

	// public routes
	router.GET("/health", controllers.Health)
	router.POST("/auth/register", controllers.Register)
	router.POST("/auth/login", controllers.Login)

	// protected routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.POST("/auth/logout", controllers.Logout)

		protected.GET("/ctftime/events", controllers.CTFTimeFeed)

		protected.GET("/ctfs", controllers.ListCtfs)
		protected.POST("/ctfs", controllers.CreateCtf)
		protected.POST("/ctfs/import", controllers.ImportCtf)
		protected.GET("/ctfs/:id", controllers.GetCtf)
		protected.PUT("/ctfs/:id", controllers.UpdateCtf)
		protected.DELETE("/ctfs/:id", controllers.DeleteCtf)
		protected.GET("/ctfs/:id/qrcode", controllers.CtfQRCode)

		protected.GET("/ctfs/:id/challenges", controllers.ListChallenges)
		protected.POST("/ctfs/:id/challenges", controllers.CreateChallenge)
		protected.POST("/ctfs/:id/challenges/import", controllers.ImportChallenges)

		protected.GET("/challenges/:id", controllers.GetChallenge)
		protected.PUT("/challenges/:id", controllers.UpdateChallenge)
		protected.DELETE("/challenges/:id", controllers.DeleteChallenge)
		protected.POST("/challenges/:id/flag", controllers.SetFlag)
		protected.POST("/challenges/:id/files", controllers.UploadChallengeFile)
		protected.GET("/challenges/:id/files", controllers.ListChallengeFiles)

		protected.GET("/categories", controllers.ListCategories)
		protected.POST("/categories", controllers.CreateCategory)
		protected.GET("/tags", controllers.ListTags)
		protected.POST("/tags", controllers.CreateTag)

		protected.GET("/search", controllers.Search)

		protected.GET("/team", controllers.GetTeam)
		protected.PUT("/team", controllers.UpdateTeam)

		protected.GET("/members", controllers.ListMembers)
		protected.GET("/members/:id", controllers.GetMember)
		protected.PUT("/members/:id", controllers.UpdateMember)
	}

	logger.Info.Printf("server starting on %s", cfg.BindAddr)
	if err := router.Run(cfg.BindAddr); err != nil {
		logger.Error.Fatalf("failed to run server: %v", err)
	}
}

// ensureTeam creates the team row on first boot so registration has an
// api key to check against.
func ensureTeam(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Team{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	team := models.Team{
		Name:   "ctfhub",
		APIKey: services.NewAPIKey(),
	}
	if err := db.Create(&team).Error; err != nil {
		return err
	}
	logger.Info.Printf("ensureTeam: created default team, registration api key: %s", team.APIKey)
	return nil
}
