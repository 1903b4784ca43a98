// Package config loads runtime configuration from the environment.
// File: config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hugsy/ctfhub/logger"
)

// Config contains every runtime setting the application reads. Values
// come from environment variables; a local .env file is honoured when
// present so `go run .` works out-of-the-box.
type Config struct {
	Env      string // "development" or "production"
	BindAddr string
	DBURL    string

	SessionSecret string

	// Remote catalog (CTFTime) settings.
	CTFTimeAPIURL string
	HTTPTimeout   time.Duration

	// Collaboration services, reached by generated URL only.
	HedgeDocURL       string
	ExcalidrawURL     string
	JitsiURL          string
	DiscordWebhookURL string

	// Attachment storage: "local" or "s3".
	StorageBackend string
	StorageDir     string
	S3Bucket       string
	S3Region       string
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration. Only DB_URL is mandatory outside of
// development; everything else has a sensible local fallback.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("Load: no .env file loaded: %v", err)
	}

	cfg := Config{
		Env:               getenv("CTFHUB_ENV", "development"),
		BindAddr:          getenv("CTFHUB_BIND_ADDR", ":8080"),
		DBURL:             getenv("CTFHUB_DB_URL", ""),
		SessionSecret:     getenv("CTFHUB_SESSION_SECRET", "changeme-in-production"),
		CTFTimeAPIURL:     getenv("CTFHUB_CTFTIME_API_URL", "https://ctftime.org"),
		HedgeDocURL:       getenv("CTFHUB_HEDGEDOC_URL", "http://localhost:3000"),
		ExcalidrawURL:     getenv("CTFHUB_EXCALIDRAW_URL", "https://excalidraw.com"),
		JitsiURL:          getenv("CTFHUB_JITSI_URL", "https://meet.jit.si"),
		DiscordWebhookURL: getenv("CTFHUB_DISCORD_WEBHOOK_URL", ""),
		StorageBackend:    getenv("CTFHUB_STORAGE_BACKEND", "local"),
		StorageDir:        getenv("CTFHUB_STORAGE_DIR", "./uploads"),
		S3Bucket:          getenv("CTFHUB_S3_BUCKET", ""),
		S3Region:          getenv("CTFHUB_S3_REGION", "eu-west-1"),
	}

	timeoutSecs, err := strconv.Atoi(getenv("CTFHUB_HTTP_TIMEOUT", "10"))
	if err != nil || timeoutSecs <= 0 {
		return Config{}, errors.New("CTFHUB_HTTP_TIMEOUT must be a positive integer (seconds)")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.Env == "production" && cfg.DBURL == "" {
		return Config{}, errors.New("CTFHUB_DB_URL is required in production")
	}

	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return Config{}, errors.New("CTFHUB_S3_BUCKET is required when the s3 storage backend is selected")
	}

	return cfg, nil
}
