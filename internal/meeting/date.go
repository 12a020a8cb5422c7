package meeting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// KeyLayout is the comparison form of a canonical date
	KeyLayout = "2006-01-02"

	// AssumedTitleYear is the year given to month/day title dates such as "Weekly Sync 2/4".
	// It is fixed rather than derived from the reference date, so runs that straddle a
	// year boundary resolve such titles into this year.
	AssumedTitleYear = 2026
)

var (
	lastWeekdayPattern = regexp.MustCompile(`(?i)\blast\s+([a-z]+)`)
	monthDayPattern    = regexp.MustCompile(`\b([A-Za-z]+)\s+(\d{1,2}),?\s*(\d{4})\b`)
	cjkDatePattern     = regexp.MustCompile(`(\d+)年(\d+)月(\d+)日`)

	titleSlashPattern    = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
	titleDashPattern     = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	titleMonthDayPattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)
)

var weekdays = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Date is a calendar date without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given values, or false if they do not name a real
// calendar day in years 1-9999
func NewDate(year, month, day int) (Date, bool) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// DateOf returns the calendar date of t in its own location
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseKey parses a YYYY-MM-DD string
func ParseKey(s string) (Date, bool) {
	t, err := time.Parse(KeyLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week of d
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Display returns the localized display form, e.g. 2026年02月04日
func (d Date) Display() string {
	return fmt.Sprintf("%04d年%02d月%02d日", d.Year, int(d.Month), d.Day)
}

// Key returns the comparison form, e.g. 2026-02-04
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// strategy is one way of reading a date out of free text
type strategy func(text string, reference Date) (Date, bool)

// Normalizer turns raw date text into canonical dates relative to a reference date.
// It holds no state beyond its inputs and is safe to reuse.
type Normalizer struct {
	reference  Date
	strategies []strategy
}

// NewNormalizer creates a Normalizer anchored at reference
func NewNormalizer(reference Date) *Normalizer {
	return &Normalizer{
		reference: reference,
		// Order matters: the patterns can overlap.
		strategies: []strategy{
			parseLastWeekday,
			parseMonthName,
			parseCJK,
		},
	}
}

// Reference returns the date relative expressions resolve against
func (n *Normalizer) Reference() Date {
	return n.reference
}

// Normalize resolves text into a canonical date.
// Returns false if no strategy recognizes a valid date.
func (n *Normalizer) Normalize(text string) (Date, bool) {
	text = strings.TrimSpace(norm.NFKC.String(text))
	if text == "" {
		return Date{}, false
	}
	for _, s := range n.strategies {
		if d, ok := s(text, n.reference); ok {
			return d, true
		}
	}
	return Date{}, false
}

// Display returns the display form of text, or the trimmed text itself when it cannot
// be normalized
func (n *Normalizer) Display(text string) string {
	if d, ok := n.Normalize(text); ok {
		return d.Display()
	}
	return strings.TrimSpace(text)
}

// Resolve returns both forms for text. The comparison form is re-derived from the
// display form and is empty when text could not be normalized.
func (n *Normalizer) Resolve(text string) (display, key string) {
	display = n.Display(text)
	key, _ = KeyFromDisplay(display)
	return display, key
}

// KeyFromDisplay converts a display form (2026年2月4日 or 2026年02月04日) into YYYY-MM-DD
func KeyFromDisplay(display string) (string, bool) {
	d, ok := parseCJK(norm.NFKC.String(display), Date{})
	if !ok {
		return "", false
	}
	return d.Key(), true
}

// Match reports whether a comparison key equals the target date key.
// An empty key never matches.
func Match(key, target string) bool {
	return key != "" && key == target
}

// parseLastWeekday handles "Last Tuesday": the most recent such weekday strictly
// before the reference date
func parseLastWeekday(text string, reference Date) (Date, bool) {
	matches := lastWeekdayPattern.FindStringSubmatch(text)
	if matches == nil {
		return Date{}, false
	}
	// Casers keep state, so one per call.
	target, ok := weekdays[cases.Title(language.English).String(matches[1])]
	if !ok {
		return Date{}, false
	}

	daysAgo := (int(reference.Weekday()) - int(target) + 7) % 7
	if daysAgo == 0 {
		daysAgo = 7
	}
	return reference.AddDays(-daysAgo), true
}

// parseMonthName handles "February 4, 2026" and "Feb 4 2026"
func parseMonthName(text string, _ Date) (Date, bool) {
	for _, matches := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		month, ok := months[strings.ToLower(matches[1])]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(matches[2])
		year, _ := strconv.Atoi(matches[3])
		if d, ok := NewDate(year, int(month), day); ok {
			return d, true
		}
	}
	return Date{}, false
}

// parseCJK handles "2026年2月4日"
func parseCJK(text string, _ Date) (Date, bool) {
	matches := cjkDatePattern.FindStringSubmatch(text)
	if matches == nil {
		return Date{}, false
	}
	return atoiDate(matches[1], matches[2], matches[3])
}

// ExtractFromText looks for a numeric date embedded in text such as a title.
// Tries YYYY/M/D, YYYY-M-D, then M/D in AssumedTitleYear. Returns YYYY-MM-DD.
func ExtractFromText(text string) (string, bool) {
	text = norm.NFKC.String(text)

	for _, pattern := range []*regexp.Regexp{titleSlashPattern, titleDashPattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if d, ok := atoiDate(m[1], m[2], m[3]); ok {
				return d.Key(), true
			}
		}
	}

	for start := 0; start < len(text); {
		loc := titleMonthDayPattern.FindStringSubmatchIndex(text[start:])
		if loc == nil {
			break
		}
		for i := range loc {
			loc[i] += start
		}
		// M/D must stand alone, not be part of a longer number or path
		if standalone(text, loc[0], loc[1]) {
			if d, ok := atoiDate(strconv.Itoa(AssumedTitleYear), text[loc[2]:loc[3]], text[loc[4]:loc[5]]); ok {
				return d.Key(), true
			}
		}
		start = loc[0] + 1
	}

	return "", false
}

// standalone reports whether text[start:end] has no digit or slash on either side
func standalone(text string, start, end int) bool {
	isPart := func(b byte) bool { return b == '/' || (b >= '0' && b <= '9') }
	if start > 0 && isPart(text[start-1]) {
		return false
	}
	return end >= len(text) || !isPart(text[end])
}

func atoiDate(year, month, day string) (Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return Date{}, false
	}
	return NewDate(y, m, d)
}
