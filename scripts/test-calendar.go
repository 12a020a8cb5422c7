package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/notion-meetings/internal/calendar"
	"github.com/pfrederiksen/notion-meetings/internal/filter"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

func main() {
	// A sample meeting as the scraper would produce it
	m := meeting.New("APP月會", "2026/02", "Weekly Sync", "Last Tuesday @ 10am", "https://www.notion.so/so/weekly-sync")
	m.Summary = "Agreed on the Q1 roadmap, dashboard QA moves to next sprint."

	ref, err := filter.ParseReferenceDate("", time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	filter.New(ref).Resolve(m)

	icsContent := calendar.Generate([]*meeting.Meeting{m}, "Sample meetings", time.Now())

	filename := "test-notion-meeting.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s (meeting on %s)\n\n", filename, m.DisplayDate)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
