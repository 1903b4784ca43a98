// Package models defines the gorm entities used across the application.
// File: models/ctf.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Ctf represents a single time-boxed competitive event. A CTF with no
// start nor end date is "permanent"; one with both is time-limited.
type Ctf struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	URL         string     `gorm:"size:256" json:"url"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	FlagPrefix  string     `gorm:"size:64" json:"flag_prefix"`

	// Credentials shared by the team to log into the event platform.
	TeamLogin    string `gorm:"size:128" json:"team_login"`
	TeamPassword string `gorm:"size:128" json:"team_password"`

	// CTFTime event id; unique when present so an event can only be
	// imported once.
	CTFTimeID *int64 `gorm:"uniqueIndex" json:"ctftime_id"`
	LogoURL   string `gorm:"size:256" json:"logo_url"`

	Visibility Visibility `gorm:"size:16;default:'public'" json:"visibility"`
	Weight     float64    `gorm:"default:1.0" json:"weight"`
	Rating     float64    `gorm:"default:0.0" json:"rating"`

	NoteID      uuid.UUID  `gorm:"type:uuid" json:"note_id"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *Member    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	Challenges []Challenge `gorm:"foreignKey:CtfID;constraint:OnDelete:CASCADE" json:"challenges,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Ctf) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.NoteID == uuid.Nil {
		c.NoteID = uuid.New()
	}
	return nil
}

// IsPermanent reports whether the CTF has no time window at all.
func (c *Ctf) IsPermanent() bool {
	return c.StartDate == nil && c.EndDate == nil
}

// IsTimeLimited reports whether both window bounds are set.
func (c *Ctf) IsTimeLimited() bool {
	return c.StartDate != nil && c.EndDate != nil
}

// Duration returns the length of a time-limited CTF, zero otherwise.
func (c *Ctf) Duration() time.Duration {
	if !c.IsTimeLimited() {
		return 0
	}
	return c.EndDate.Sub(*c.StartDate)
}

// IsRunning reports whether the CTF is in progress. A permanent CTF is
// always running.
func (c *Ctf) IsRunning(now time.Time) bool {
	if c.IsPermanent() {
		return true
	}
	if !c.IsTimeLimited() {
		return false
	}
	return !now.Before(*c.StartDate) && now.Before(*c.EndDate)
}

// IsFinished reports whether the CTF is over. A permanent CTF never
// finishes.
func (c *Ctf) IsFinished(now time.Time) bool {
	if !c.IsTimeLimited() {
		return false
	}
	return !now.Before(*c.EndDate)
}

func (c *Ctf) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// TotalPoints sums the points of every challenge currently loaded on the
// struct.
func (c *Ctf) TotalPoints() int {
	total := 0
	for _, ch := range c.Challenges {
		total += ch.Points
	}
	return total
}

// ScoredPoints sums the points of the solved challenges currently loaded
// on the struct.
func (c *Ctf) ScoredPoints() int {
	total := 0
	for _, ch := range c.Challenges {
		if ch.Solved() {
			total += ch.Points
		}
	}
	return total
}

// SolvedPercent returns the share of solved challenges, as an integer
// percentage.
func (c *Ctf) SolvedPercent() int {
	if len(c.Challenges) == 0 {
		return 0
	}
	solved := 0
	for _, ch := range c.Challenges {
		if ch.Solved() {
			solved++
		}
	}
	return solved * 100 / len(c.Challenges)
}

func (c *Ctf) String() string {
	return fmt.Sprintf("Ctf(%s)", c.Name)
}
