// File: models/team.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team holds the team-wide settings. A deployment hosts exactly one
// team; the row is created on first boot.
type Team struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Email      string    `gorm:"size:128" json:"email"`
	AvatarURL  string    `gorm:"size:256" json:"avatar_url"`
	TwitterURL string    `gorm:"size:256" json:"twitter_url"`
	GithubURL  string    `gorm:"size:256" json:"github_url"`
	YoutubeURL string    `gorm:"size:256" json:"youtube_url"`
	BlogURL    string    `gorm:"size:256" json:"blog_url"`

	// CTFTime team id, used to build the public team page URL.
	CTFTimeID *int64 `json:"ctftime_id"`

	// Registration is gated on this key: prospective members must
	// provide it when signing up.
	APIKey string `gorm:"size:128" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
