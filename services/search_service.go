// File: services/search_service.go
package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/models"
)

// Query is the parsed form of a search box input. Tokens of the form
// key:value scope the filter; everything else is free text. All parts
// combine with AND.
type Query struct {
	Categories []string
	Tags       []string
	Solved     *bool
	Terms      []string
}

// ParseQuery parses the small query-operator syntax. Recognized keys are
// cat:, tag: and solved:; an unrecognized key is not an error, the token
// simply degrades to a free-text term so a malformed query still
// searches instead of failing the page.
func ParseQuery(text string) Query {
	var q Query
	for _, token := range strings.Fields(strings.ToLower(text)) {
		key, value, found := strings.Cut(token, ":")
		if !found {
			q.Terms = append(q.Terms, token)
			continue
		}
		switch key {
		case "cat":
			q.Categories = append(q.Categories, value)
		case "tag":
			q.Tags = append(q.Tags, value)
		case "solved":
			switch value {
			case "true", "1", "yes":
				v := true
				q.Solved = &v
			case "false", "0", "no":
				v := false
				q.Solved = &v
			default:
				q.Terms = append(q.Terms, token)
			}
		default:
			q.Terms = append(q.Terms, token)
		}
	}
	return q
}

// IsEmpty reports whether the query carries no filter at all.
func (q Query) IsEmpty() bool {
	return len(q.Categories) == 0 && len(q.Tags) == 0 && q.Solved == nil && len(q.Terms) == 0
}

// Matches applies the query to one challenge. The challenge must have
// its Category and Tags loaded for the scoped filters to see them.
func (q Query) Matches(ch models.Challenge) bool {
	for _, want := range q.Categories {
		if ch.Category == nil || !strings.EqualFold(ch.Category.Name, want) {
			return false
		}
	}

	for _, want := range q.Tags {
		found := false
		for _, tag := range ch.Tags {
			if strings.EqualFold(tag.Name, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.Solved != nil && ch.Solved() != *q.Solved {
		return false
	}

	for _, term := range q.Terms {
		name := strings.ToLower(ch.Name)
		description := strings.ToLower(ch.Description)
		if !strings.Contains(name, term) && !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

// FilterChallenges keeps the challenges matching the query.
func FilterChallenges(challenges []models.Challenge, q Query) []models.Challenge {
	result := make([]models.Challenge, 0, len(challenges))
	for _, ch := range challenges {
		if q.Matches(ch) {
			result = append(result, ch)
		}
	}
	return result
}

// ---------------------- global search ----------------------

// SearchResult is one hit of the global search, typed by the entity it
// came from.
type SearchResult struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// SearchService runs a free-text search across CTFs, challenges,
// categories, tags and the remote catalog feed.
type SearchService struct {
	db      *gorm.DB
	ctftime *CTFTimeClient
}

func NewSearchService(db *gorm.DB, ctftime *CTFTimeClient) *SearchService {
	return &SearchService{db: db, ctftime: ctftime}
}

// Search fans the pattern out to every entity kind and concatenates the
// hits. Remote catalog failures only cost that one section.
func (s *SearchService) Search(pattern string) []SearchResult {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil
	}

	var results []SearchResult
	results = append(results, s.searchCtfs(pattern)...)
	results = append(results, s.searchChallenges(pattern)...)
	results = append(results, s.searchCategories(pattern)...)
	results = append(results, s.searchTags(pattern)...)
	results = append(results, s.searchCTFTime(pattern)...)
	return results
}

func (s *SearchService) searchCtfs(pattern string) []SearchResult {
	var ctfs []models.Ctf
	like := "%" + pattern + "%"
	s.db.Where("lower(name) LIKE ? OR lower(description) LIKE ?", like, like).Find(&ctfs)

	var results []SearchResult
	for _, ctf := range ctfs {
		results = append(results, SearchResult{
			Kind:        "ctf",
			Title:       ctf.Name,
			Description: ctf.Description,
			Link:        fmt.Sprintf("/ctfs/%s", ctf.ID),
		})
	}
	return results
}

func (s *SearchService) searchChallenges(pattern string) []SearchResult {
	var challenges []models.Challenge
	like := "%" + pattern + "%"
	s.db.Where("lower(name) LIKE ? OR lower(description) LIKE ?", like, like).Find(&challenges)

	var results []SearchResult
	for _, ch := range challenges {
		results = append(results, SearchResult{
			Kind:        "challenge",
			Title:       ch.Name,
			Description: ch.Description,
			Link:        fmt.Sprintf("/challenges/%s", ch.ID),
		})
	}
	return results
}

func (s *SearchService) searchCategories(pattern string) []SearchResult {
	var categories []models.Category
	like := "%" + pattern + "%"
	s.db.Preload("Challenges").Where("lower(name) LIKE ?", like).Find(&categories)

	var results []SearchResult
	for _, category := range categories {
		for _, ch := range category.Challenges {
			results = append(results, SearchResult{
				Kind:        "category",
				Title:       ch.Name,
				Description: fmt.Sprintf("%s (%s)", ch.Name, category.Name),
				Link:        fmt.Sprintf("/challenges/%s", ch.ID),
			})
		}
	}
	return results
}

func (s *SearchService) searchTags(pattern string) []SearchResult {
	var tags []models.Tag
	like := "%" + pattern + "%"
	s.db.Preload("Challenges").Where("lower(name) LIKE ?", like).Find(&tags)

	var results []SearchResult
	for _, tag := range tags {
		for _, ch := range tag.Challenges {
			results = append(results, SearchResult{
				Kind:        "tag",
				Title:       ch.Name,
				Description: fmt.Sprintf("%s [%s]", ch.Name, tag.Name),
				Link:        fmt.Sprintf("/challenges/%s", ch.ID),
			})
		}
	}
	return results
}

func (s *SearchService) searchCTFTime(pattern string) []SearchResult {
	events, err := s.ctftime.UpcomingEvents()
	if err != nil {
		// degrade: local results still go through
		return nil
	}

	var results []SearchResult
	for _, ev := range events {
		title := strings.ToLower(ev.Title)
		description := strings.ToLower(ev.Description)
		if strings.Contains(title, pattern) || strings.Contains(description, pattern) {
			results = append(results, SearchResult{
				Kind:        "ctftime",
				Title:       ev.Title,
				Description: ev.Description,
				Link:        fmt.Sprintf("/ctfs/import?ctftime_id=%d", ev.ID),
			})
		}
	}
	return results
}
