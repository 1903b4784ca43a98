// File: services/import_service.go
package services

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// ImportSummary reports what a bulk challenge import did.
type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ImportService turns external catalog records and pasted payloads into
// local rows.
type ImportService struct {
	db      *gorm.DB
	ctftime *CTFTimeClient
}

// NewImportService wires the importer against the database and the
// remote catalog client.
func NewImportService(db *gorm.DB, ctftime *CTFTimeClient) *ImportService {
	return &ImportService{db: db, ctftime: ctftime}
}

// ImportEvent fetches the catalog record for externalID and persists it
// as a Ctf. Importing the same id twice never creates a second row: the
// existing one is refreshed from the catalog and returned together with
// ErrAlreadyImported.
func (s *ImportService) ImportEvent(externalID string) (*models.Ctf, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(externalID), 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidIdentifier
	}

	// The lookup ignores the soft-delete scope: the unique ctf_time_id
	// index spans deleted rows too, so a deleted event must be restored
	// here rather than collide on Create below.
	var existing models.Ctf
	if err := s.db.Unscoped().Where("ctf_time_id = ?", id).First(&existing).Error; err == nil {
		logger.Info.Printf("ImportEvent: ctftime event %d already imported as %s", id, existing.ID)
		if existing.DeletedAt.Valid {
			if rerr := s.db.Unscoped().Model(&existing).Update("deleted_at", nil).Error; rerr != nil {
				return nil, rerr
			}
			existing.DeletedAt = gorm.DeletedAt{}
			logger.Info.Printf("ImportEvent: restored deleted ctf %s", existing.ID)
		}
		// Re-import refreshes the catalog-owned fields; local-only ones
		// (flag prefix, credentials, visibility) are left alone. An
		// unreachable catalog does not break the idempotent success.
		if info, ferr := s.ctftime.EventInfo(id); ferr == nil {
			applyEventInfo(&existing, info)
			if serr := s.db.Save(&existing).Error; serr != nil {
				logger.Warn.Printf("ImportEvent: refresh of %s failed: %v", existing.ID, serr)
			}
		}
		return &existing, ErrAlreadyImported
	}

	info, err := s.ctftime.EventInfo(id)
	if err != nil {
		return nil, err
	}

	ctf := models.Ctf{
		CTFTimeID:  &info.ID,
		Visibility: models.VisibilityPublic,
	}
	applyEventInfo(&ctf, info)

	if err := s.db.Create(&ctf).Error; err != nil {
		// A concurrent import of the same id loses the race on the
		// unique ctftime_id index; hand back the winner instead of a
		// server error. Unscoped for the same reason as above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var winner models.Ctf
			if ferr := s.db.Unscoped().Where("ctf_time_id = ?", id).First(&winner).Error; ferr == nil {
				if winner.DeletedAt.Valid {
					if rerr := s.db.Unscoped().Model(&winner).Update("deleted_at", nil).Error; rerr != nil {
						return nil, rerr
					}
					winner.DeletedAt = gorm.DeletedAt{}
				}
				return &winner, ErrAlreadyImported
			}
		}
		return nil, err
	}

	logger.Info.Printf("ImportEvent: imported ctftime event %d as %q", id, ctf.Name)
	return &ctf, nil
}

// applyEventInfo copies the catalog-owned fields of a detail record onto
// a Ctf.
func applyEventInfo(ctf *models.Ctf, info *CTFTimeEvent) {
	ctf.Name = info.Title
	ctf.URL = info.URL
	ctf.Description = SanitizeDescription(info.Description)
	ctf.Weight = info.Weight
	ctf.LogoURL = SafeLogoURL(info.Logo, "")
	if !info.Start.IsZero() {
		start := info.Start
		ctf.StartDate = &start
	}
	if !info.Finish.IsZero() {
		finish := info.Finish
		ctf.EndDate = &finish
	}
}

// ApplyChallenges applies parsed records onto a CTF in one transaction.
// Per record: the category is created on demand, then the challenge is
// created or updated by its (ctf, name) natural key. Records failing
// validation are counted skipped and never persisted. Any persistence
// error rolls the whole batch back.
func (s *ImportService) ApplyChallenges(ctf *models.Ctf, records []ChallengeRecord) (ImportSummary, error) {
	var summary ImportSummary

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			name := strings.TrimSpace(record.Name)
			if name == "" || record.Points < 0 {
				summary.Skipped++
				continue
			}

			category, err := GetOrCreateCategory(tx, record.Category)
			if err != nil {
				return err
			}

			description := SanitizeDescription(record.Description)

			var challenge models.Challenge
			err = tx.Where("ctf_id = ? AND name = ?", ctf.ID, name).First(&challenge).Error
			switch {
			case err == nil:
				challenge.Points = record.Points
				challenge.Description = description
				challenge.CategoryID = categoryRef(category)
				if err := tx.Save(&challenge).Error; err != nil {
					return err
				}
				summary.Updated++

			case errors.Is(err, gorm.ErrRecordNotFound):
				challenge = models.Challenge{
					CtfID:       ctf.ID,
					Name:        name,
					Points:      record.Points,
					Description: description,
					CategoryID:  categoryRef(category),
				}
				if err := tx.Create(&challenge).Error; err != nil {
					// Duplicate names inside one payload or a
					// concurrent import; fold into an update.
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						if err := tx.Model(&models.Challenge{}).
							Where("ctf_id = ? AND name = ?", ctf.ID, name).
							Updates(map[string]any{
								"points":      record.Points,
								"description": description,
								"category_id": categoryRef(category),
							}).Error; err != nil {
							return err
						}
						summary.Updated++
						continue
					}
					return err
				}
				summary.Created++

			default:
				return err
			}
		}
		return nil
	})

	if err != nil {
		logger.Error.Printf("ApplyChallenges: batch for %q rolled back: %v", ctf.Name, err)
		return ImportSummary{}, err
	}
	return summary, nil
}

// GetOrCreateCategory looks up the category by normalized name, creating
// it when absent. Empty names yield no category.
func GetOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, nil
	}

	var category models.Category
	err := tx.Where("name = ?", normalized).
		FirstOrCreate(&category, models.Category{Name: normalized}).Error
	if err != nil {
		// Two transactions racing on the same new category: retry the
		// lookup once, the loser finds the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("name = ?", normalized).First(&category).Error; err != nil {
				return nil, err
			}
			return &category, nil
		}
		return nil, err
	}
	return &category, nil
}

func categoryRef(category *models.Category) *uint {
	if category == nil {
		return nil
	}
	return &category.ID
}
