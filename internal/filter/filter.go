// Package filter selects the meetings that belong to a reference date.
//
// Each meeting is resolved once: explicit date text goes through the meeting
// Normalizer; meetings without date text fall back to a numeric date in the title.
// Meetings with neither can never match.
//
// Example usage:
//
//	ref, _ := filter.ParseReferenceDate("2026-02-12", time.Now())
//	f := filter.New(ref)
//	today := f.Apply(meetings)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

// Filter represents meeting selection criteria
type Filter struct {
	// Target is the YYYY-MM-DD date a meeting must resolve to
	Target string `json:"target"`

	// Categories limits matches to these category names (exact match); empty means all
	Categories []string `json:"categories,omitempty"`

	normalizer *meeting.Normalizer
}

// New creates a filter anchored at reference that targets the same day
func New(reference meeting.Date) *Filter {
	return &Filter{
		Target:     reference.Key(),
		Categories: []string{},
		normalizer: meeting.NewNormalizer(reference),
	}
}

// Resolve populates DisplayDate and DateKey on m.
//
// Date text is normalized when present; otherwise a date embedded in the title is used
// for both forms. When neither yields a date, DateKey stays empty, and DisplayDate
// keeps the raw date text if there was any.
func (f *Filter) Resolve(m *meeting.Meeting) {
	if strings.TrimSpace(m.DateText) != "" {
		m.DisplayDate, m.DateKey = f.normalizer.Resolve(m.DateText)
		return
	}

	if key, ok := meeting.ExtractFromText(m.Title); ok {
		m.DisplayDate = key
		m.DateKey = key
		return
	}

	m.DisplayDate = ""
	m.DateKey = ""
}

// Matches resolves m and reports whether it falls on the target date and in one of the
// selected categories
func (f *Filter) Matches(m *meeting.Meeting) bool {
	f.Resolve(m)

	if !meeting.Match(m.DateKey, f.Target) {
		return false
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, c := range f.Categories {
			if m.Category == c {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply resolves every meeting and returns those that match, in their original order.
// Every meeting passed in has its date fields populated afterwards.
func (f *Filter) Apply(meetings []*meeting.Meeting) []*meeting.Meeting {
	filtered := make([]*meeting.Meeting, 0)
	for _, m := range meetings {
		if f.Matches(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// String returns a human-readable description of the filter
func (f *Filter) String() string {
	parts := []string{fmt.Sprintf("Date: %s", f.Target)}
	if ref := f.normalizer.Reference(); ref.Key() != f.Target {
		parts = append(parts, fmt.Sprintf("Relative to: %s", ref.Key()))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}
	return strings.Join(parts, " | ")
}
