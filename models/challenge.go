// File: models/challenge.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeStatus string

const (
	ChallengeUnsolved ChallengeStatus = "unsolved"
	ChallengeSolved   ChallengeStatus = "solved"
)

// Challenge is a single scored task within a CTF. The (ctf, name) pair
// is unique so a bulk import can never create duplicates.
type Challenge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CtfID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_challenges_ctf_name" json:"ctf_id"`
	Ctf         *Ctf      `gorm:"foreignKey:CtfID" json:"-"`
	Name        string    `gorm:"size:256;not null;uniqueIndex:idx_challenges_ctf_name" json:"name"`
	Points      int       `gorm:"default:0" json:"points"`
	Description string    `gorm:"type:text" json:"description"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Flag           string          `gorm:"size:128" json:"flag"`
	Status         ChallengeStatus `gorm:"size:16;default:'unsolved'" json:"status"`
	SolvedTime     *time.Time      `json:"solved_time"`
	Solvers        []Member        `gorm:"many2many:challenge_solvers" json:"solvers,omitempty"`
	LastUpdateByID *uuid.UUID      `gorm:"type:uuid" json:"last_update_by_id"`

	Tags            []Tag    `gorm:"many2many:challenge_tags" json:"tags,omitempty"`
	AssignedMembers []Member `gorm:"many2many:challenge_assignees" json:"assigned_members,omitempty"`

	NoteID            uuid.UUID `gorm:"type:uuid" json:"note_id"`
	ExcalidrawRoomID  string    `gorm:"size:20" json:"excalidraw_room_id"`
	ExcalidrawRoomKey string    `gorm:"size:22" json:"excalidraw_room_key"`

	Files []ChallengeFile `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"files,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.NoteID == uuid.Nil {
		c.NoteID = uuid.New()
	}
	return nil
}

func (c *Challenge) Solved() bool {
	return c.Status == ChallengeSolved
}

// Category is the kind of a challenge (web, crypto, pwn...). Categories
// are created on demand during import rather than from a fixed list,
// because new categories keep appearing across CTFs.
type Category struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"size:128;uniqueIndex;not null" json:"name"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Challenges []Challenge `gorm:"foreignKey:CategoryID" json:"-"`
}

// Tag is a free-form label attached to challenges.
type Tag struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"size:128;uniqueIndex;not null" json:"name"`
	CreatedAt  time.Time   `json:"created_at"`
	Challenges []Challenge `gorm:"many2many:challenge_tags" json:"-"`
}

// ChallengeFile is an attachment uploaded for a challenge. The blob
// itself lives in the configured storage backend; only metadata is kept
// here.
type ChallengeFile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uuid.UUID `gorm:"type:uuid;not null" json:"challenge_id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Location    string    `gorm:"size:512" json:"location"`
	Mime        string    `gorm:"size:128" json:"mime"`
	SHA256      string    `gorm:"size:64" json:"sha256"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *ChallengeFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
