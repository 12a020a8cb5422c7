package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
	"github.com/sahilm/fuzzy"
)

// ParseReferenceDate parses a YYYY-MM-DD reference date.
// An empty input means the calendar date of now.
func ParseReferenceDate(input string, now time.Time) (meeting.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return meeting.DateOf(now), nil
	}

	d, ok := meeting.ParseKey(input)
	if !ok {
		return meeting.Date{}, fmt.Errorf("invalid reference date %q (use YYYY-MM-DD)", input)
	}
	return d, nil
}

// MatchCategory picks the category name a user query refers to.
//
// An exact (case-insensitive) name wins; otherwise the best fuzzy match is used.
// Returns false if nothing matches.
func MatchCategory(names []string, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	for _, name := range names {
		if strings.EqualFold(name, query) {
			return name, true
		}
	}

	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
