// File: services/sanitize.go
package services

import "github.com/microcosm-cc/bluemonday"

// descriptionPolicy keeps the markup a challenge description may carry.
// Imports paste third-party HTML straight from other platforms, so
// everything beyond user-generated-content basics is stripped.
var descriptionPolicy = bluemonday.UGCPolicy()

// SanitizeDescription strips dangerous markup from rich-text challenge
// or event descriptions.
func SanitizeDescription(s string) string {
	return descriptionPolicy.Sanitize(s)
}
