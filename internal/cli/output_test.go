package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

func TestWriteOutput_Text(t *testing.T) {
	result := &RunResult{
		Filter: "Date: 2026-02-12",
		Categories: []CategoryResult{
			{Name: "Engineering", Scraped: 3, Matched: 1},
			{Name: "Gone", Error: "loading category Gone: HTTP 404"},
		},
		Meetings: []*meeting.Meeting{
			{ID: "abc", Category: "Engineering", Subcategory: "2026/02", Title: "Standup", DisplayDate: "2026年02月12日", SourceURL: "https://example.com/so/1"},
		},
		Files: []string{"out/meetings-Engineering-2026-02-20260212.md"},
	}

	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name: "default",
			want: []string{
				"Filter: Date: 2026-02-12",
				"Engineering: 3 crawled, 1 matched",
				"Gone: FAILED (loading category Gone: HTTP 404)",
				"1. [Engineering / 2026/02] Standup (2026年02月12日)",
				"Wrote 1 file(s):",
			},
			notWant: []string{"ID: abc"},
		},
		{
			name:    "verbose",
			verbose: true,
			want:    []string{"ID: abc", "Source: https://example.com/so/1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOutput(&buf, result, FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteOutput() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q", w)
				}
			}
		})
	}
}

func TestWriteOutput_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &RunResult{DryRun: true}, FormatText, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No meetings found.") || !strings.Contains(out, "Dry run: no files written.") {
		t.Errorf("output = %q", out)
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, &RunResult{}, OutputFormat("xml"), false); err == nil {
		t.Error("WriteOutput() should reject unknown formats")
	}
}
