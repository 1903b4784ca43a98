// File: services/challenge_import.go
package services

import (
	"encoding/json"
	"strings"

	"github.com/hugsy/ctfhub/logger"
)

// ImportFormat selects the parsing strategy for a bulk challenge
// payload.
type ImportFormat string

const (
	// FormatRaw is one challenge per line, "name|category".
	FormatRaw ImportFormat = "RAW"
	// FormatCTFd is the JSON export of a CTFd instance.
	FormatCTFd ImportFormat = "CTFd"
	// FormatRCTF is the JSON export of an rCTF instance.
	FormatRCTF ImportFormat = "rCTF"
)

// ValidFormat reports whether f is one of the supported import formats.
func ValidFormat(f ImportFormat) bool {
	return f == FormatRaw || f == FormatCTFd || f == FormatRCTF
}

// ChallengeRecord is the normalized shape every import format converges
// on. The rest of the system only ever sees this.
type ChallengeRecord struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// ParseChallenges parses a pasted payload into challenge records.
// The returned count is the number of entries the parser had to skip
// (wrong field count, missing name). A structurally broken payload for
// the JSON formats is a hard ErrMalformedPayload.
func ParseChallenges(format ImportFormat, payload string) ([]ChallengeRecord, int, error) {
	switch format {
	case FormatRaw:
		return parseRaw(payload)
	case FormatCTFd:
		return parseCTFd(payload)
	case FormatRCTF:
		return parseRCTF(payload)
	default:
		return nil, 0, ErrMalformedPayload
	}
}

// parseRaw handles the "name|category" line format. Lines with the
// wrong number of fields are skipped and counted rather than failing
// the whole batch.
func parseRaw(payload string) ([]ChallengeRecord, int, error) {
	var records []ChallengeRecord
	skipped := 0

	for num, line := range strings.Split(payload, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			logger.Warn.Printf("parseRaw: line %d has %d field(s), expected 2, skipping", num+1, len(parts))
			skipped++
			continue
		}
		records = append(records, ChallengeRecord{
			Name:     strings.TrimSpace(parts[0]),
			Category: strings.TrimSpace(parts[1]),
		})
	}
	return records, skipped, nil
}

// ctfdExport is the envelope of a CTFd challenge dump.
type ctfdExport struct {
	Success bool `json:"success"`
	Data    []struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Value       int    `json:"value"`
		Description string `json:"description"`
	} `json:"data"`
}

func parseCTFd(payload string) ([]ChallengeRecord, int, error) {
	var export ctfdExport
	if err := json.Unmarshal([]byte(payload), &export); err != nil {
		return nil, 0, ErrMalformedPayload
	}
	if !export.Success || export.Data == nil {
		return nil, 0, ErrMalformedPayload
	}

	var records []ChallengeRecord
	skipped := 0
	for _, ch := range export.Data {
		if ch.Name == "" {
			skipped++
			continue
		}
		records = append(records, ChallengeRecord{
			Name:        ch.Name,
			Category:    ch.Category,
			Points:      ch.Value,
			Description: ch.Description,
		})
	}
	return records, skipped, nil
}

// rctfExport is the envelope of an rCTF challenge dump. Depending on the
// exporter version `data` is either a flat list of challenges carrying
// their category, or a map of category name to challenge list.
type rctfExport struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type rctfChallenge struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

func parseRCTF(payload string) ([]ChallengeRecord, int, error) {
	var export rctfExport
	if err := json.Unmarshal([]byte(payload), &export); err != nil {
		return nil, 0, ErrMalformedPayload
	}
	if !strings.Contains(export.Message, "successful") || export.Data == nil {
		return nil, 0, ErrMalformedPayload
	}

	var flat []rctfChallenge
	if err := json.Unmarshal(export.Data, &flat); err == nil {
		return rctfRecords(flat, ""), countMissingNames(flat), nil
	}

	var grouped map[string][]rctfChallenge
	if err := json.Unmarshal(export.Data, &grouped); err != nil {
		return nil, 0, ErrMalformedPayload
	}

	var records []ChallengeRecord
	skipped := 0
	for category, challenges := range grouped {
		records = append(records, rctfRecords(challenges, category)...)
		skipped += countMissingNames(challenges)
	}
	return records, skipped, nil
}

// rctfRecords converts rCTF challenge objects, preferring the per-object
// category and falling back to the grouping key.
func rctfRecords(challenges []rctfChallenge, groupCategory string) []ChallengeRecord {
	var records []ChallengeRecord
	for _, ch := range challenges {
		if ch.Name == "" {
			continue
		}
		category := ch.Category
		if category == "" {
			category = groupCategory
		}
		records = append(records, ChallengeRecord{
			Name:        ch.Name,
			Category:    category,
			Points:      ch.Points,
			Description: ch.Description,
		})
	}
	return records
}

func countMissingNames(challenges []rctfChallenge) int {
	n := 0
	for _, ch := range challenges {
		if ch.Name == "" {
			n++
		}
	}
	return n
}
