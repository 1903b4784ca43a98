// file: services/import_service_test.go
package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/hugsy/ctfhub/database"
	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

// newTestDB opens a throwaway sqlite database with the same gorm
// configuration as production, so unique-violation translation behaves
// identically.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestImportEvent_CreatesCtf(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	server := ctftimeStub(t, []services.CTFTimeEvent{{
		ID:          1234,
		Title:       "SomeCTF 2026",
		Description: "jeopardy style",
		URL:         "https://some.ctf",
		Logo:        "https://some.ctf/logo.svg",
		Weight:      24.5,
		Start:       now.Add(24 * time.Hour),
		Finish:      now.Add(72 * time.Hour),
	}})

	db := newTestDB(t)
	importer := services.NewImportService(db, services.NewCTFTimeClient(server.URL, 2*time.Second))

	ctf, err := importer.ImportEvent("1234")
	require.NoError(t, err)
	assert.Equal(t, "SomeCTF 2026", ctf.Name)
	assert.Equal(t, 24.5, ctf.Weight)
	require.NotNil(t, ctf.CTFTimeID)
	assert.Equal(t, int64(1234), *ctf.CTFTimeID)
	require.NotNil(t, ctf.StartDate)
	require.NotNil(t, ctf.EndDate)
	assert.True(t, ctf.IsTimeLimited())
	// logos with unaccepted extensions are not hotlinked
	assert.Equal(t, "", ctf.LogoURL)

	var count int64
	require.NoError(t, db.Model(&models.Ctf{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Importing the same catalog id twice must not create a second row; the
// caller gets the existing one back with the sentinel, refreshed from
// the catalog.
func TestImportEvent_Idempotent(t *testing.T) {
	event := services.CTFTimeEvent{ID: 99, Title: "OnceCTF"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(event)
	}))
	t.Cleanup(server.Close)

	db := newTestDB(t)
	importer := services.NewImportService(db, services.NewCTFTimeClient(server.URL, 2*time.Second))

	first, err := importer.ImportEvent("99")
	require.NoError(t, err)

	// the organizers renamed the event upstream
	event.Title = "OnceCTF Finals"

	second, err := importer.ImportEvent("99")
	assert.ErrorIs(t, err, services.ErrAlreadyImported)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "OnceCTF Finals", second.Name)

	var count int64
	require.NoError(t, db.Model(&models.Ctf{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Deleting an imported event must not wedge its catalog id: the unique
// index still covers the soft-deleted row, so a later re-import restores
// it instead of surfacing a constraint error.
func TestImportEvent_AfterDelete(t *testing.T) {
	server := ctftimeStub(t, []services.CTFTimeEvent{{ID: 77, Title: "GoneCTF"}})

	db := newTestDB(t)
	importer := services.NewImportService(db, services.NewCTFTimeClient(server.URL, 2*time.Second))

	first, err := importer.ImportEvent("77")
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Ctf{}, "id = ?", first.ID).Error)

	restored, err := importer.ImportEvent("77")
	assert.ErrorIs(t, err, services.ErrAlreadyImported)
	require.NotNil(t, restored)
	assert.Equal(t, first.ID, restored.ID)

	// visible again without the unscoped escape hatch
	var found models.Ctf
	require.NoError(t, db.First(&found, "id = ?", first.ID).Error)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Ctf{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportEvent_InvalidIdentifier(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, services.NewCTFTimeClient("http://127.0.0.1:1", time.Second))

	for _, bad := range []string{"", "abc", "-5", "0", "12.5"} {
		_, err := importer.ImportEvent(bad)
		assert.ErrorIs(t, err, services.ErrInvalidIdentifier, "id %q", bad)
	}
}

func TestImportEvent_RemoteDown(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, services.NewCTFTimeClient("http://127.0.0.1:1", 500*time.Millisecond))

	_, err := importer.ImportEvent("1234")
	assert.ErrorIs(t, err, services.ErrRemoteUnavailable)
}

func makeCtf(t *testing.T, db *gorm.DB, name string) *models.Ctf {
	t.Helper()
	ctf := models.Ctf{Name: name}
	require.NoError(t, db.Create(&ctf).Error)
	return &ctf
}

func TestApplyChallenges_CreateUpdateSkip(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, nil)
	ctf := makeCtf(t, db, "SomeCTF")

	summary, err := importer.ApplyChallenges(ctf, []services.ChallengeRecord{
		{Name: "notes", Category: "web", Points: 100},
		{Name: "heap", Category: "pwn", Points: 400},
	})
	require.NoError(t, err)
	assert.Equal(t, services.ImportSummary{Created: 2}, summary)

	// second batch: one update, one create, two invalid
	summary, err = importer.ApplyChallenges(ctf, []services.ChallengeRecord{
		{Name: "notes", Category: "web", Points: 150},
		{Name: "aes", Category: "crypto", Points: 300},
		{Name: "", Category: "web", Points: 100},
		{Name: "negative", Category: "web", Points: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, services.ImportSummary{Created: 1, Updated: 1, Skipped: 2}, summary)

	var notes models.Challenge
	require.NoError(t, db.Where("ctf_id = ? AND name = ?", ctf.ID, "notes").First(&notes).Error)
	assert.Equal(t, 150, notes.Points)

	var count int64
	require.NoError(t, db.Model(&models.Challenge{}).Where("ctf_id = ?", ctf.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

// Re-applying the same batch touches existing rows instead of growing
// the table.
func TestApplyChallenges_ReimportIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, nil)
	ctf := makeCtf(t, db, "SomeCTF")

	records := []services.ChallengeRecord{
		{Name: "notes", Category: "web", Points: 100},
		{Name: "heap", Category: "pwn", Points: 400},
	}

	_, err := importer.ApplyChallenges(ctf, records)
	require.NoError(t, err)

	summary, err := importer.ApplyChallenges(ctf, records)
	require.NoError(t, err)
	assert.Equal(t, services.ImportSummary{Updated: 2}, summary)

	var count int64
	require.NoError(t, db.Model(&models.Challenge{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// A persistence failure mid-batch rolls the whole transaction back:
// nothing sticks, not even the records before the failing one.
func TestApplyChallenges_RollbackIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, nil)
	ctf := makeCtf(t, db, "SomeCTF")

	// make the third record blow up inside the transaction
	require.NoError(t, db.Exec(`
		CREATE TRIGGER reject_boom BEFORE INSERT ON challenges
		WHEN NEW.name = 'boom'
		BEGIN SELECT RAISE(ABORT, 'storage failure'); END`).Error)

	summary, err := importer.ApplyChallenges(ctf, []services.ChallengeRecord{
		{Name: "notes", Category: "web", Points: 100},
		{Name: "heap", Category: "pwn", Points: 400},
		{Name: "boom", Category: "web", Points: 50},
	})
	require.Error(t, err)
	assert.Equal(t, services.ImportSummary{}, summary)

	var challengeCount, categoryCount int64
	require.NoError(t, db.Model(&models.Challenge{}).Count(&challengeCount).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.EqualValues(t, 0, challengeCount)
	assert.EqualValues(t, 0, categoryCount)
}

// Categories repeated across a large batch resolve to the same rows.
func TestApplyChallenges_CategoriesDeduplicated(t *testing.T) {
	db := newTestDB(t)
	importer := services.NewImportService(db, nil)
	ctf := makeCtf(t, db, "BigCTF")

	categories := []string{"web", "pwn", "crypto"}
	records := make([]services.ChallengeRecord, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, services.ChallengeRecord{
			Name:     fmt.Sprintf("chall-%02d", i),
			Category: categories[i%3],
			Points:   100,
		})
	}

	summary, err := importer.ApplyChallenges(ctf, records)
	require.NoError(t, err)
	assert.Equal(t, 50, summary.Created)

	var categoryCount, challengeCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	require.NoError(t, db.Model(&models.Challenge{}).Count(&challengeCount).Error)
	assert.EqualValues(t, 3, categoryCount)
	assert.EqualValues(t, 50, challengeCount)
}

// Category names are case and whitespace normalized before lookup, so
// spelling variants collapse into one row.
func TestGetOrCreateCategory_Normalizes(t *testing.T) {
	db := newTestDB(t)

	first, err := services.GetOrCreateCategory(db, "  Web ")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "web", first.Name)

	second, err := services.GetOrCreateCategory(db, "WEB")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	none, err := services.GetOrCreateCategory(db, "   ")
	require.NoError(t, err)
	assert.Nil(t, none)
}
