package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultLinkSelector matches Notion share links to meeting sub-pages
	DefaultLinkSelector = `a[href*="/so/"]`

	minLinkTitle   = 3
	maxLinkTitle   = 79
	minSummaryText = 11
)

var (
	listingLinePattern = regexp.MustCompile(`^(.+?)\s*@\s*(Last\s+\w+|\w+\s+\d+,?\s*\d{4})`)
	shareSummaryLabel  = regexp.MustCompile(`(?i)share summary\s*`)
	shareSummaryEnd    = regexp.MustCompile(`(?i)\n\n|summary\s|notes\s|citations\s*\d`)

	excludedLinkText = []string{"Skip to", "Sign up"}
)

// Link is a discovered meeting sub-page
type Link struct {
	Title string
	URL   string
}

// PageInfo is what a single meeting page yields
type PageInfo struct {
	Title    string
	DateText string
	Summary  string
	Notes    string
}

// ListingItem is one meeting listed inline on a category page
type ListingItem struct {
	Title    string
	DateText string
	Summary  string
}

// Subpages returns the meeting links on a page, resolved against base and
// de-duplicated by title in document order
func Subpages(doc *goquery.Document, base *url.URL, selector string) []Link {
	if selector == "" {
		selector = DefaultLinkSelector
	}

	var links []Link
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		title := strings.TrimSpace(blockText(a))
		if n := utf8.RuneCountInString(title); n < minLinkTitle || n > maxLinkTitle {
			return
		}
		for _, excluded := range excludedLinkText {
			if strings.Contains(title, excluded) {
				return
			}
		}
		if seen[title] {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}

		seen[title] = true
		links = append(links, Link{Title: title, URL: ref.String()})
	})

	return links
}

// ExtractMeeting reads a single meeting page. Summary and notes are only read when
// requested.
func ExtractMeeting(doc *goquery.Document, withSummary, withNotes bool) PageInfo {
	var info PageInfo

	info.Title = strings.TrimSpace(blockText(doc.Find("h1").First()))
	info.DateText = dateSpan(doc)

	body := blockText(doc.Find("body"))
	if withSummary {
		info.Summary = section(body, "Summary", "Notes")
	}
	if withNotes {
		info.Notes = section(body, "Notes", "Transcript")
	}

	return info
}

// dateSpan returns the text of the first span that looks like "@ Last Tuesday" or
// "@ February 4, 2026", without the @
func dateSpan(doc *goquery.Document) string {
	var text string
	doc.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		t := blockText(span)
		if strings.Contains(t, "@") && (strings.Contains(t, "Last") || strings.Contains(t, ", 202")) {
			text = strings.TrimSpace(strings.ReplaceAll(t, "@", ""))
			return false
		}
		return true
	})
	return text
}

// section returns the text between the first start label and the next end label after
// it, or the end of the text
func section(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	rest := text[i+len(start):]
	if j := strings.Index(rest, end); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// ExtractListing reads meetings listed inline on a page. Each "Title @ date" line is a
// meeting; "Share summary" blocks are paired with them in order.
func ExtractListing(doc *goquery.Document) []ListingItem {
	body := blockText(doc.Find("body"))

	var items []ListingItem
	for _, line := range strings.Split(body, "\n") {
		m := listingLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		items = append(items, ListingItem{
			Title:    strings.TrimSpace(m[1]),
			DateText: strings.TrimSpace(m[2]),
		})
	}

	for i, summary := range shareSummaries(body) {
		if i >= len(items) {
			break
		}
		items[i].Summary = summary
	}

	return items
}

func shareSummaries(body string) []string {
	var summaries []string
	rest := body
	for {
		loc := shareSummaryLabel.FindStringIndex(rest)
		if loc == nil {
			return summaries
		}
		rest = rest[loc[1]:]

		block := rest
		if end := shareSummaryEnd.FindStringIndex(rest); end != nil {
			block = rest[:end[0]]
		}
		block = strings.TrimSpace(block)
		if utf8.RuneCountInString(block) >= minSummaryText {
			summaries = append(summaries, block)
		}
	}
}
