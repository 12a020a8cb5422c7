package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/notion-meetings/internal/logger"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// CategoryResult is the crawl outcome for one category
type CategoryResult struct {
	Name    string `json:"name"`
	Scraped int    `json:"scraped"`
	Matched int    `json:"matched"`
	Error   string `json:"error,omitempty"`
}

// RunResult contains data to be output after a run or a conversion
type RunResult struct {
	ReferenceDate string             `json:"reference_date,omitempty"`
	Filter        string             `json:"filter,omitempty"`
	Source        string             `json:"source,omitempty"`
	Categories    []CategoryResult   `json:"categories,omitempty"`
	Meetings      []*meeting.Meeting `json:"meetings"`
	Skipped       int                `json:"skipped,omitempty"`
	Files         []string           `json:"files,omitempty"`
	Digest        string             `json:"digest,omitempty"`
	Calendar      string             `json:"calendar,omitempty"`
	DryRun        bool               `json:"dry_run,omitempty"`
	Metrics       *logger.Snapshot   `json:"metrics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *RunResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *RunResult, verbose bool) error {
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}
	if result.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", result.Source)
	}

	for _, c := range result.Categories {
		if c.Error != "" {
			fmt.Fprintf(w, "  %s: FAILED (%s)\n", c.Name, c.Error)
			continue
		}
		fmt.Fprintf(w, "  %s: %d crawled, %d matched\n", c.Name, c.Scraped, c.Matched)
	}

	if len(result.Meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
	} else {
		fmt.Fprintf(w, "\n%d meeting(s):\n", len(result.Meetings))
		for i, m := range result.Meetings {
			fmt.Fprintf(w, "%d. %s\n", i+1, meetingLine(m))
			if verbose {
				fmt.Fprintf(w, "   ID: %s\n", m.ID)
				if m.SourceURL != "" {
					fmt.Fprintf(w, "   Source: %s\n", m.SourceURL)
				}
			}
		}
	}

	if result.Skipped > 0 {
		fmt.Fprintf(w, "\nSkipped %d meeting(s) without a recognizable date.\n", result.Skipped)
	}

	if result.DryRun {
		fmt.Fprintln(w, "\nDry run: no files written.")
		return nil
	}
	if len(result.Files) > 0 {
		fmt.Fprintf(w, "\nWrote %d file(s):\n", len(result.Files))
		for _, f := range result.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	if result.Digest != "" {
		fmt.Fprintf(w, "Digest: %s\n", result.Digest)
	}
	if result.Calendar != "" {
		fmt.Fprintf(w, "Calendar: %s\n", result.Calendar)
	}

	return nil
}

// meetingLine renders "[category / subcategory] title (date)"
func meetingLine(m *meeting.Meeting) string {
	labels := []string{m.Category}
	if m.Subcategory != "" {
		labels = append(labels, m.Subcategory)
	}
	line := fmt.Sprintf("[%s] %s", strings.Join(labels, " / "), m.Title)

	date := m.DisplayDate
	if date == "" {
		date = m.DateText
	}
	if date != "" {
		line += fmt.Sprintf(" (%s)", date)
	}
	return line
}

// NormalizedDate is one row of the normalize command's output
type NormalizedDate struct {
	Text    string `json:"text"`
	Display string `json:"display"`
	Key     string `json:"key,omitempty"`
	Source  string `json:"source,omitempty"`
}

func writeNormalized(w io.Writer, rows []NormalizedDate, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatText:
		for _, r := range rows {
			key := r.Key
			if key == "" {
				key = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Text, r.Display, key)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
