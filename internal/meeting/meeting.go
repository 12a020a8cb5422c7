package meeting

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Meeting represents a meeting record scraped from a workspace page
type Meeting struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Title       string `json:"title"`
	DateText    string `json:"date_text,omitempty"`    // raw date text as found on the page
	DisplayDate string `json:"display_date,omitempty"` // 2026年02月04日, or DateText when unresolvable
	DateKey     string `json:"date_key,omitempty"`     // 2026-02-04, empty when unresolvable
	Summary     string `json:"summary,omitempty"`
	Notes       string `json:"notes,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// GenerateID creates a deterministic ID for a meeting based on where it was found
func GenerateID(category, subcategory, title, sourceURL string) string {
	h := sha1.New()
	h.Write([]byte(strings.Join([]string{
		category,
		subcategory,
		strings.TrimSpace(title),
		sourceURL,
	}, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Meeting with its ID populated
func New(category, subcategory, title, dateText, sourceURL string) *Meeting {
	return &Meeting{
		ID:          GenerateID(category, subcategory, title, sourceURL),
		Category:    category,
		Subcategory: subcategory,
		Title:       strings.TrimSpace(title),
		DateText:    strings.TrimSpace(dateText),
		SourceURL:   sourceURL,
	}
}

// HasContent reports whether the meeting carries anything worth keeping
func (m *Meeting) HasContent() bool {
	return m.Title != "" || m.Summary != ""
}

// Dated reports whether the meeting has a resolved comparison date
func (m *Meeting) Dated() bool {
	return m.DateKey != ""
}

// Dedupe drops meetings with an ID seen earlier in the slice, keeping order
func Dedupe(meetings []*Meeting) []*Meeting {
	seen := make(map[string]bool)
	unique := make([]*Meeting, 0, len(meetings))
	for _, m := range meetings {
		if !seen[m.ID] {
			seen[m.ID] = true
			unique = append(unique, m)
		}
	}
	return unique
}
