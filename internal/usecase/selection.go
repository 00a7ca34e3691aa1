package usecase

import (
	"strings"

	"github.com/toddlers/naws/internal/domain"
)

// Selection is the slice of announcements chosen for display.
// Items holds at most limit matches in feed order, Total counts every match.
type Selection struct {
	Items []domain.Announcement
	Total int
}

// Remaining returns how many matching announcements were left out by the limit.
func (s Selection) Remaining() int {
	return s.Total - len(s.Items)
}

// Select keeps the announcements matching filter and cuts the result to limit.
// An empty filter matches everything. The input is never modified.
func Select(items []domain.Announcement, filter string, limit int) Selection {
	matched := make([]domain.Announcement, 0, len(items))
	for _, item := range items {
		if MatchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	if limit < 0 {
		limit = 0
	}
	count := min(len(matched), limit)
	return Selection{
		Items: matched[:count:count],
		Total: len(matched),
	}
}

// MatchesFilter reports whether filter occurs in the title, the raw description or
// any category of a, ignoring case. Plain substring match, no word boundaries.
func MatchesFilter(a domain.Announcement, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(a.Title), needle) {
		return true
	}
	if a.Description != nil && strings.Contains(strings.ToLower(*a.Description), needle) {
		return true
	}
	for _, c := range a.Categories {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}
