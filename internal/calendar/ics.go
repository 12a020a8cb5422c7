// Package calendar exports meetings as iCalendar (.ics) all-day events.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

const (
	prodID    = "-//notion-meetings//notion-meetings//EN"
	uidDomain = "notion-meetings"

	// maxLineOctets is the RFC 5545 content line limit, excluding CRLF
	maxLineOctets = 75
)

// Generate builds a calendar with one all-day event per dated meeting. Meetings without
// a resolved date are skipped. Returns "" when no meeting has a date.
func Generate(meetings []*meeting.Meeting, name string, now time.Time) string {
	var events strings.Builder
	count := 0
	for _, m := range meetings {
		if writeEvent(&events, m, now) {
			count++
		}
	}
	if count == 0 {
		return ""
	}

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	}
	ics.WriteString(events.String())
	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

// writeEvent appends a VEVENT for m and reports whether it had a date
func writeEvent(ics *strings.Builder, m *meeting.Meeting, now time.Time) bool {
	date, ok := meeting.ParseKey(m.DateKey)
	if !ok {
		return false
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", m.ID, uidDomain))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))
	writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(date))
	writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(date.AddDays(1)))
	writeLine(ics, "SUMMARY:"+escapeICS(eventSummary(m)))

	if desc := eventDescription(m); desc != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(desc))
	}
	if m.SourceURL != "" {
		writeLine(ics, "URL:"+m.SourceURL)
	}
	writeLine(ics, "CATEGORIES:"+escapeICS(m.Category))
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
	return true
}

func eventSummary(m *meeting.Meeting) string {
	title := m.Title
	if title == "" {
		title = m.Subcategory
	}
	if title == "" {
		return m.Category
	}
	return fmt.Sprintf("%s - %s", m.Category, title)
}

func eventDescription(m *meeting.Meeting) string {
	var parts []string
	if m.Subcategory != "" {
		parts = append(parts, "子分類: "+m.Subcategory)
	}
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}
	if m.Notes != "" {
		parts = append(parts, m.Notes)
	}
	return strings.Join(parts, "\n\n")
}

// writeLine writes one content line folded at 75 octets, without splitting characters
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines carry a leading space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(d meeting.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// escapeICS escapes text values according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
