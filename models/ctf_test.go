// file: models/ctf_test.go
package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hugsy/ctfhub/models"
)

func TestCtfTimeWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	permanent := models.Ctf{}
	assert.True(t, permanent.IsPermanent())
	assert.True(t, permanent.IsRunning(now))
	assert.False(t, permanent.IsFinished(now))
	assert.Equal(t, time.Duration(0), permanent.Duration())

	running := models.Ctf{StartDate: &before, EndDate: &after}
	assert.True(t, running.IsTimeLimited())
	assert.True(t, running.IsRunning(now))
	assert.False(t, running.IsFinished(now))
	assert.Equal(t, 48*time.Hour, running.Duration())

	finished := models.Ctf{StartDate: &before, EndDate: &now}
	assert.False(t, finished.IsRunning(now))
	assert.True(t, finished.IsFinished(now))

	future := models.Ctf{StartDate: &after, EndDate: &after}
	assert.False(t, future.IsRunning(now))
	assert.False(t, future.IsFinished(now))
}

func TestCtfScoring(t *testing.T) {
	ctf := models.Ctf{
		Challenges: []models.Challenge{
			{Name: "a", Points: 100, Status: models.ChallengeSolved},
			{Name: "b", Points: 300, Status: models.ChallengeUnsolved},
			{Name: "c", Points: 200, Status: models.ChallengeSolved},
		},
	}

	assert.Equal(t, 600, ctf.TotalPoints())
	assert.Equal(t, 300, ctf.ScoredPoints())
	assert.Equal(t, 66, ctf.SolvedPercent())

	empty := models.Ctf{}
	assert.Equal(t, 0, empty.SolvedPercent())
	assert.Equal(t, 0, empty.TotalPoints())
}
