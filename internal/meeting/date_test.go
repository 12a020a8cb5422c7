package meeting

import (
	"fmt"
	"testing"
	"time"
)

// Thursday
var refDate = Date{Year: 2026, Month: time.February, Day: 12}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(refDate)

	tests := []struct {
		name     string
		text     string
		wantKey  string
		wantZero bool
	}{
		{
			name:    "Last Tuesday with time",
			text:    "Last Tuesday @ 10am",
			wantKey: "2026-02-10",
		},
		{
			name:    "Last weekday lowercase",
			text:    "last monday",
			wantKey: "2026-02-09",
		},
		{
			name:    "Last same weekday goes back a full week",
			text:    "Last Thursday",
			wantKey: "2026-02-05",
		},
		{
			name:    "Last Friday crosses into previous week",
			text:    "Last Friday",
			wantKey: "2026-02-06",
		},
		{
			name:    "Full month name with comma",
			text:    "February 4, 2026",
			wantKey: "2026-02-04",
		},
		{
			name:    "Abbreviated month without comma",
			text:    "Feb 4 2026",
			wantKey: "2026-02-04",
		},
		{
			name:    "June abbreviation",
			text:    "Jun 30, 2025",
			wantKey: "2025-06-30",
		},
		{
			name:    "Month name embedded in text",
			text:    "Sync @ March 3, 2026 2:00 PM",
			wantKey: "2026-03-03",
		},
		{
			name:    "CJK date",
			text:    "2026年2月4日",
			wantKey: "2026-02-04",
		},
		{
			name:    "CJK date zero padded",
			text:    "2026年02月04日",
			wantKey: "2026-02-04",
		},
		{
			name:    "Full-width CJK date",
			text:    "２０２６年２月４日",
			wantKey: "2026-02-04",
		},
		{
			name:     "Invalid month name date",
			text:     "February 30, 2026",
			wantZero: true,
		},
		{
			name:     "Invalid CJK month",
			text:     "2026年13月1日",
			wantZero: true,
		},
		{
			name:     "Unknown weekday",
			text:     "Last week",
			wantZero: true,
		},
		{
			name:     "Not a month",
			text:     "Room 4, 2026",
			wantZero: true,
		},
		{
			name:     "Empty string",
			text:     "",
			wantZero: true,
		},
		{
			name:     "Whitespace only",
			text:     "   ",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(tt.text)

			if tt.wantZero {
				if ok || !got.IsZero() {
					t.Errorf("Normalize(%q) = %v, %v, want no match", tt.text, got, ok)
				}
				return
			}

			if !ok {
				t.Fatalf("Normalize(%q) returned no match, want %s", tt.text, tt.wantKey)
			}
			if got.Key() != tt.wantKey {
				t.Errorf("Normalize(%q).Key() = %q, want %q", tt.text, got.Key(), tt.wantKey)
			}
		})
	}
}

func TestNormalize_LastWeekdayIsStrictlyBefore(t *testing.T) {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	start := Date{Year: 2025, Month: time.December, Day: 20}

	// Covers a month and a year boundary.
	for offset := 0; offset < 30; offset++ {
		ref := start.AddDays(offset)
		n := NewNormalizer(ref)

		for _, name := range names {
			got, ok := n.Normalize("Last " + name)
			if !ok {
				t.Fatalf("Normalize(Last %s) with ref %s returned no match", name, ref.Key())
			}
			if !got.Time().Before(ref.Time()) {
				t.Errorf("Normalize(Last %s) with ref %s = %s, want strictly before", name, ref.Key(), got.Key())
			}
			if ref.Time().Sub(got.Time()) > 7*24*time.Hour {
				t.Errorf("Normalize(Last %s) with ref %s = %s, more than a week back", name, ref.Key(), got.Key())
			}
			if got.Weekday().String() != name {
				t.Errorf("Normalize(Last %s) with ref %s = %s (%s)", name, ref.Key(), got.Key(), got.Weekday())
			}
		}
	}
}

func TestNormalize_EnglishAndCJKAgree(t *testing.T) {
	n := NewNormalizer(refDate)
	monthNames := []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	for year := 2024; year <= 2026; year++ {
		for m := 1; m <= 12; m++ {
			for day := 1; day <= 31; day++ {
				english := fmt.Sprintf("%s %d, %d", monthNames[m-1], day, year)
				abbrev := fmt.Sprintf("%s %d %d", monthNames[m-1][:3], day, year)
				cjk := fmt.Sprintf("%d年%d月%d日", year, m, day)

				_, valid := NewDate(year, m, day)
				e, eok := n.Normalize(english)
				a, aok := n.Normalize(abbrev)
				c, cok := n.Normalize(cjk)

				if eok != valid || aok != valid || cok != valid {
					t.Fatalf("%s: valid=%v english=%v abbrev=%v cjk=%v", cjk, valid, eok, aok, cok)
				}
				if !valid {
					continue
				}

				ek, _ := KeyFromDisplay(e.Display())
				ak, _ := KeyFromDisplay(a.Display())
				ck, _ := KeyFromDisplay(c.Display())
				want := fmt.Sprintf("%04d-%02d-%02d", year, m, day)
				if ek != want || ak != want || ck != want {
					t.Errorf("%s: english=%s abbrev=%s cjk=%s, want %s", cjk, ek, ak, ck, want)
				}
			}
		}
	}
}

func TestNormalize_DisplayIsIdempotent(t *testing.T) {
	n := NewNormalizer(refDate)

	display := "2026年02月04日"
	if got := n.Display(display); got != display {
		t.Errorf("Display(%q) = %q, want unchanged", display, got)
	}
	if got := n.Display(n.Display("Feb 4, 2026")); got != display {
		t.Errorf("Display(Display(Feb 4, 2026)) = %q, want %q", got, display)
	}
}

func TestNormalizer_Resolve(t *testing.T) {
	n := NewNormalizer(refDate)

	tests := []struct {
		name        string
		text        string
		wantDisplay string
		wantKey     string
	}{
		{
			name:        "relative weekday",
			text:        "Last Tuesday @ 10am",
			wantDisplay: "2026年02月10日",
			wantKey:     "2026-02-10",
		},
		{
			name:        "month name",
			text:        "Feb 4, 2026",
			wantDisplay: "2026年02月04日",
			wantKey:     "2026-02-04",
		},
		{
			name:        "unparseable passes through",
			text:        "  sometime soon ",
			wantDisplay: "sometime soon",
			wantKey:     "",
		},
		{
			name:        "invalid CJK passes through without key",
			text:        "2026年2月30日",
			wantDisplay: "2026年2月30日",
			wantKey:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, key := n.Resolve(tt.text)
			if display != tt.wantDisplay {
				t.Errorf("Resolve(%q) display = %q, want %q", tt.text, display, tt.wantDisplay)
			}
			if key != tt.wantKey {
				t.Errorf("Resolve(%q) key = %q, want %q", tt.text, key, tt.wantKey)
			}
		})
	}
}

func TestExtractFromText(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Meeting 2026/2/4 notes", "2026-02-04", true},
		{"Review 2025-12-31", "2025-12-31", true},
		{"Weekly Sync 2/4", "2026-02-04", true},
		{"2/4 kickoff", "2026-02-04", true},
		{"Retro 12/25", "2026-12-25", true},
		{"Bad 2026/2/30 then 3/1", "2026-03-01", true},
		{"Review 2026/2/30 2026/3/1", "2026-03-01", true},
		{"13/40 2/4 sync", "2026-02-04", true},
		{"Sync 2/30 3/5", "2026-03-05", true},
		{"Build 12/345", "", false},
		{"Planning 2026/13/40", "", false},
		{"Invalid 13/45", "", false},
		{"No digits at all", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractFromText(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractFromText(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeyFromDisplay(t *testing.T) {
	tests := []struct {
		display string
		want    string
		wantOK  bool
	}{
		{"2026年02月04日", "2026-02-04", true},
		{"2026年2月4日", "2026-02-04", true},
		{"Last Tuesday", "", false},
		{"2026年2月29日", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got, ok := KeyFromDisplay(tt.display)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("KeyFromDisplay(%q) = %q, %v, want %q, %v", tt.display, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	if !Match("2026-02-10", "2026-02-10") {
		t.Error("Match() should accept equal keys")
	}
	if Match("2026-02-10", "2026-02-12") {
		t.Error("Match() should reject different keys")
	}
	if Match("", "") {
		t.Error("Match() should never accept an empty key")
	}
}

func TestNewDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantOK           bool
	}{
		{"regular", 2026, 2, 4, true},
		{"leap day", 2024, 2, 29, true},
		{"non-leap day", 2026, 2, 29, false},
		{"day 32", 2026, 1, 32, false},
		{"month 13", 2026, 13, 1, false},
		{"month 0", 2026, 0, 1, false},
		{"day 0", 2026, 1, 0, false},
		{"year 0", 0, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NewDate(tt.year, tt.month, tt.day)
			if ok != tt.wantOK {
				t.Errorf("NewDate(%d, %d, %d) ok = %v, want %v", tt.year, tt.month, tt.day, ok, tt.wantOK)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	d, ok := ParseKey("2026-02-12")
	if !ok {
		t.Fatal("ParseKey(2026-02-12) failed")
	}
	if d != refDate {
		t.Errorf("ParseKey(2026-02-12) = %+v, want %+v", d, refDate)
	}
	if d.Weekday() != time.Thursday {
		t.Errorf("2026-02-12 weekday = %s, want Thursday", d.Weekday())
	}

	if _, ok := ParseKey("2026-2-12x"); ok {
		t.Error("ParseKey should reject malformed input")
	}
}
