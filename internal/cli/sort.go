package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortByCategory SortOrder = "category"
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortNone, SortByCategory, SortByDate, SortByTitle:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'category', 'date' or 'title')", s)
}

// sortMeetings sorts meetings in place. SortNone keeps crawl order.
func sortMeetings(meetings []*meeting.Meeting, order SortOrder) {
	switch order {
	case SortByCategory:
		sort.SliceStable(meetings, func(i, j int) bool {
			if meetings[i].Category != meetings[j].Category {
				return meetings[i].Category < meetings[j].Category
			}
			if meetings[i].Subcategory != meetings[j].Subcategory {
				return meetings[i].Subcategory < meetings[j].Subcategory
			}
			return compareByTitle(meetings[i], meetings[j])
		})
	case SortByDate:
		sort.SliceStable(meetings, func(i, j int) bool {
			return compareByDate(meetings[i], meetings[j])
		})
	case SortByTitle:
		sort.SliceStable(meetings, func(i, j int) bool {
			if !strings.EqualFold(meetings[i].Title, meetings[j].Title) {
				return compareByTitle(meetings[i], meetings[j])
			}
			// If titles are equal, sort by date
			return compareByDate(meetings[i], meetings[j])
		})
	}
}

func compareByTitle(i, j *meeting.Meeting) bool {
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}

// compareByDate puts dated meetings first, oldest first
func compareByDate(i, j *meeting.Meeting) bool {
	if i.DateKey != "" && j.DateKey != "" {
		return i.DateKey < j.DateKey
	}
	return i.DateKey != "" && j.DateKey == ""
}
