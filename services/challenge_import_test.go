// file: services/challenge_import_test.go
package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugsy/ctfhub/services"
)

// Every well-formed line of a RAW payload must yield exactly one record.
func TestParseRaw_WellFormedLines(t *testing.T) {
	payload := "Baby RSA|crypto\nweb 101 | web\n\npwn me|pwn\n"

	records, skipped, err := services.ParseChallenges(services.FormatRaw, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 3)

	// fields are trimmed, points default to zero
	assert.Equal(t, services.ChallengeRecord{Name: "Baby RSA", Category: "crypto"}, records[0])
	assert.Equal(t, "web 101", records[1].Name)
	assert.Equal(t, "web", records[1].Category)
	assert.Equal(t, 0, records[0].Points)
	assert.Equal(t, "", records[0].Description)
}

// Lines with the wrong field count are skipped and counted, without
// aborting the rest of the batch.
func TestParseRaw_BadLinesAreSkipped(t *testing.T) {
	payload := "good|crypto\nno separator here\na|b|c\nother|web"

	records, skipped, err := services.ParseChallenges(services.FormatRaw, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "good", records[0].Name)
	assert.Equal(t, "other", records[1].Name)
}

func TestParseCTFd_Valid(t *testing.T) {
	payload := `{
		"success": true,
		"data": [
			{"name": "pwnme", "category": "pwn", "value": 500, "description": "ret2libc"},
			{"name": "babyweb", "category": "web", "value": 100, "description": ""}
		]
	}`

	records, skipped, err := services.ParseChallenges(services.FormatCTFd, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "pwnme", records[0].Name)
	assert.Equal(t, 500, records[0].Points)
	assert.Equal(t, "ret2libc", records[0].Description)
}

// An object without a name cannot become a challenge; it is counted
// skipped and everything else still parses.
func TestParseCTFd_MissingNameIsSkipped(t *testing.T) {
	payload := `{
		"success": true,
		"data": [
			{"category": "web", "value": 100},
			{"name": "ok", "category": "web", "value": 50}
		]
	}`

	records, skipped, err := services.ParseChallenges(services.FormatCTFd, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Name)
}

// A payload that is not JSON at all must abort before anything is
// persisted.
func TestParseCTFd_NotJSONIsMalformed(t *testing.T) {
	_, _, err := services.ParseChallenges(services.FormatCTFd, "this is not json")
	assert.ErrorIs(t, err, services.ErrMalformedPayload)
}

func TestParseCTFd_MissingEnvelopeIsMalformed(t *testing.T) {
	_, _, err := services.ParseChallenges(services.FormatCTFd, `{"success": false}`)
	assert.ErrorIs(t, err, services.ErrMalformedPayload)

	_, _, err = services.ParseChallenges(services.FormatCTFd, `{"data": []}`)
	assert.ErrorIs(t, err, services.ErrMalformedPayload)
}

func TestParseRCTF_FlatList(t *testing.T) {
	payload := `{
		"message": "The retrieval was successful",
		"data": [
			{"name": "notes", "category": "web", "points": 150, "description": "xss"},
			{"name": "aes", "category": "crypto", "points": 300, "description": ""}
		]
	}`

	records, skipped, err := services.ParseChallenges(services.FormatRCTF, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, 150, records[0].Points)
	assert.Equal(t, "xss", records[0].Description)
}

// Some exporters group challenges under their category key; the
// grouping key then provides the category.
func TestParseRCTF_GroupedByCategory(t *testing.T) {
	payload := `{
		"message": "successful",
		"data": {
			"web": [{"name": "notes", "points": 150, "description": "xss"}],
			"pwn": [{"name": "heap", "points": 400, "description": ""}]
		}
	}`

	records, skipped, err := services.ParseChallenges(services.FormatRCTF, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 2)

	byName := map[string]services.ChallengeRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Equal(t, "web", byName["notes"].Category)
	assert.Equal(t, "pwn", byName["heap"].Category)
}

func TestParseRCTF_NotJSONIsMalformed(t *testing.T) {
	_, _, err := services.ParseChallenges(services.FormatRCTF, "{broken")
	assert.ErrorIs(t, err, services.ErrMalformedPayload)

	_, _, err = services.ParseChallenges(services.FormatRCTF, `{"message": "nope", "data": []}`)
	assert.ErrorIs(t, err, services.ErrMalformedPayload)
}

// A large grouped payload keeps every record; categories repeat, records
// do not.
func TestParseRCTF_FiftyChallengesThreeCategories(t *testing.T) {
	grouped := map[string][]map[string]any{}
	categories := []string{"web", "pwn", "crypto"}
	for i := 0; i < 50; i++ {
		cat := categories[i%3]
		grouped[cat] = append(grouped[cat], map[string]any{
			"name":        fmt.Sprintf("chall-%02d", i),
			"points":      100 + i,
			"description": "",
		})
	}
	data, err := json.Marshal(map[string]any{"message": "successful", "data": grouped})
	require.NoError(t, err)

	records, skipped, err := services.ParseChallenges(services.FormatRCTF, string(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Len(t, records, 50)

	seen := map[string]bool{}
	for _, r := range records {
		assert.Contains(t, categories, r.Category)
		assert.False(t, seen[r.Name], "duplicate record %s", r.Name)
		seen[r.Name] = true
	}
}

func TestParseChallenges_UnknownFormat(t *testing.T) {
	_, _, err := services.ParseChallenges("YAML", "whatever")
	assert.ErrorIs(t, err, services.ErrMalformedPayload)
	assert.False(t, services.ValidFormat("YAML"))
	assert.True(t, services.ValidFormat(services.FormatRaw))
}
