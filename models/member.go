// File: models/member.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MemberStatus string

const (
	StatusMember MemberStatus = "member"
	StatusGuest  MemberStatus = "guest"
)

// Member is a registered team member. Guests are members restricted to a
// single selected CTF.
type Member struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string       `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string       `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password      string       `gorm:"size:128" json:"-"`
	Description   string       `gorm:"type:text" json:"description"`
	Country       string       `gorm:"size:64" json:"country"`
	Timezone      string       `gorm:"size:64" json:"timezone"`
	AvatarURL     string       `gorm:"size:256" json:"avatar_url"`
	TwitterURL    string       `gorm:"size:256" json:"twitter_url"`
	GithubURL     string       `gorm:"size:256" json:"github_url"`
	BlogURL       string       `gorm:"size:256" json:"blog_url"`
	Status        MemberStatus `gorm:"size:16;default:'member'" json:"status"`
	IsAdmin       bool         `gorm:"default:false" json:"is_admin"`
	JoinedTime    time.Time    `json:"joined_time"`
	SelectedCtfID *uuid.UUID   `gorm:"type:uuid" json:"selected_ctf_id"`

	// Credentials on the note-taking service; opaque to this app.
	HedgeDocUsername string `gorm:"size:128" json:"-"`
	HedgeDocPassword string `gorm:"size:128" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedTime.IsZero() {
		m.JoinedTime = time.Now().UTC()
	}
	return nil
}

// HashPassword stores the bcrypt hash of the given plaintext password.
func (m *Member) HashPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.Password = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (m *Member) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) == nil
}
