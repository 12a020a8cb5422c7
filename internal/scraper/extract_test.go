package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const meetingPageHTML = `<html>
<head><title>Weekly Sync</title><script>var Summary = "not this";</script></head>
<body>
  <h1>Weekly Sync 2/4</h1>
  <div><span>@Last Tuesday 10:00 AM</span></div>
  <div>Summary</div>
  <div>
    <p>Agreed on the Q1 roadmap.</p>
    <p>Dashboard ships next week.</p>
  </div>
  <div>Notes</div>
  <ul>
    <li>Roadmap review</li>
    <li>Dashboard QA</li>
  </ul>
  <div>Transcript</div>
  <div>Speaker 1: hello everyone</div>
</body>
</html>`

const listingPageHTML = `<html><body>
  <div>數據週會議 @ Last Tuesday</div>
  <div>Share summary</div>
  <p>本週完成報表自動化，下週開始串接資料庫。</p>
  <div>APP月會 @ February 4, 2026</div>
  <div>Share summary</div>
  <p>ok</p>
  <div>Launch review @ Jan 30, 2026</div>
  <div>Contact: team@example.com</div>
</body></html>`

func parseHTML(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestSubpages(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<a href="https://example.com/so/abc">Skip to content</a>
		<a href="/so/one">Weekly Sync</a>
		<a href="/so/two">Weekly Sync</a>
		<a href="so/three">  Design Review  </a>
		<a href="/so/four">ab</a>
		<a href="/so/five">`+strings.Repeat("x", 80)+`</a>
		<a href="/so/six">`+strings.Repeat("字", 79)+`</a>
		<a href="/other/seven">Not a meeting link</a>
		<a href="/so/eight">Sign up for free</a>
		<a>/so/ without href</a>
	</body></html>`)
	base, _ := url.Parse("https://www.notion.so/workspace/page")

	got := Subpages(doc, base, "")

	want := []Link{
		{Title: "Weekly Sync", URL: "https://www.notion.so/so/one"},
		{Title: "Design Review", URL: "https://www.notion.so/workspace/so/three"},
		{Title: strings.Repeat("字", 79), URL: "https://www.notion.so/so/six"},
	}
	if len(got) != len(want) {
		t.Fatalf("Subpages() returned %d links, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Subpages()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubpages_CustomSelector(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<a class="meeting" href="/m/1">Retro</a>
		<a href="/so/2">Planning</a>
	</body></html>`)

	got := Subpages(doc, nil, "a.meeting")
	if len(got) != 1 || got[0].Title != "Retro" || got[0].URL != "/m/1" {
		t.Errorf("Subpages() = %+v, want only the Retro link", got)
	}
}

func TestExtractMeeting(t *testing.T) {
	doc := parseHTML(t, meetingPageHTML)

	tests := []struct {
		name        string
		withSummary bool
		withNotes   bool
		want        PageInfo
	}{
		{
			name:        "everything",
			withSummary: true,
			withNotes:   true,
			want: PageInfo{
				Title:    "Weekly Sync 2/4",
				DateText: "Last Tuesday 10:00 AM",
				Summary:  "Agreed on the Q1 roadmap.\n\nDashboard ships next week.",
				Notes:    "Roadmap review\nDashboard QA",
			},
		},
		{
			name: "summary and notes disabled",
			want: PageInfo{
				Title:    "Weekly Sync 2/4",
				DateText: "Last Tuesday 10:00 AM",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMeeting(doc, tt.withSummary, tt.withNotes)
			if got != tt.want {
				t.Errorf("ExtractMeeting() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractMeeting_DateSpan(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "absolute date",
			html: `<span>Created by Ann</span><span>Sync @ February 4, 2026 3:00 PM</span>`,
			want: "Sync  February 4, 2026 3:00 PM",
		},
		{
			name: "at sign without a date",
			html: `<span>mail @ example.com</span>`,
			want: "",
		},
		{
			name: "no spans",
			html: `<div>@ Last Monday</div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMeeting(parseHTML(t, "<html><body>"+tt.html+"</body></html>"), false, false)
			if got.DateText != tt.want {
				t.Errorf("DateText = %q, want %q", got.DateText, tt.want)
			}
		})
	}
}

func TestSection(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end string
		want       string
	}{
		{"bounded", "Summary\nabc\nNotes\nxyz", "Summary", "Notes", "abc"},
		{"runs to end", "Summary\nabc", "Summary", "Notes", "abc"},
		{"missing start", "Notes only", "Summary", "Notes", ""},
		{"end before start ignored", "Notes\nSummary\nabc", "Summary", "Notes", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := section(tt.text, tt.start, tt.end); got != tt.want {
				t.Errorf("section() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractListing(t *testing.T) {
	got := ExtractListing(parseHTML(t, listingPageHTML))

	want := []ListingItem{
		{Title: "數據週會議", DateText: "Last Tuesday", Summary: "本週完成報表自動化，下週開始串接資料庫。"},
		{Title: "APP月會", DateText: "February 4, 2026"},
		{Title: "Launch review", DateText: "Jan 30, 2026"},
	}
	if len(got) != len(want) {
		t.Fatalf("ExtractListing() returned %d items, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExtractListing()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractListing_Empty(t *testing.T) {
	if got := ExtractListing(parseHTML(t, meetingPageHTML)); len(got) != 0 {
		t.Errorf("ExtractListing() on a meeting page = %+v, want none", got)
	}
}
