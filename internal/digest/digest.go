// Package digest reads aggregated meeting digests back into meetings.
//
// A digest groups meetings under "## category" headings, one "### title" heading per
// meeting followed by a list of "**label**：value" fields:
//
//	## APP月會
//
//	### Weekly Sync
//	- **類別**：`APP月會`
//	- **子類別**：`（無）`
//	- **時間**：`2026年02月10日`
//	- **摘要**：Agreed on the Q1 roadmap.
//	- **筆記**：（無）
//
// "（無）" marks an empty value. Summary and notes may continue on following lines,
// either inside the list item or as paragraphs after the list.
package digest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

const (
	labelCategory    = "類別"
	labelSubcategory = "子類別"
	labelDate        = "時間"
	labelSummary     = "摘要"
	labelNotes       = "筆記"
	labelLink        = "連結"

	emptyValue   = "（無）"
	unknownValue = "（未知）"
	untitled     = "（無標題）"
)

var (
	fieldPattern = regexp.MustCompile(`(?s)^\*\*(.+?)\*\*\s*[：:]\s*(.*)$`)
	codePattern  = regexp.MustCompile("^`(.+?)`")
)

// ReadFile parses the digest at path
func ReadFile(path string) ([]*meeting.Meeting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading digest: %w", err)
	}
	return Parse(data), nil
}

// parser tracks where in the digest the walk is
type parser struct {
	source   []byte
	category string
	current  *meeting.Meeting
	// field is the multi-line field that loose paragraphs belong to, if any
	field    string
	meetings []*meeting.Meeting
}

// Parse reads meetings from digest markdown. Content before the first "###" heading is
// ignored. IDs are generated from the parsed fields.
func Parse(source []byte) []*meeting.Meeting {
	p := &parser{source: source}
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			p.heading(node)
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				p.field = ""
				p.setField(p.blockText(item))
			}
		case *ast.ThematicBreak:
			p.field = ""
		case *ast.Paragraph:
			p.appendText(p.blockText(node))
		}
	}
	p.finish()

	return p.meetings
}

func (p *parser) heading(h *ast.Heading) {
	title := strings.TrimSpace(p.blockText(h))
	switch h.Level {
	case 2:
		p.finish()
		p.category = title
	case 3:
		p.finish()
		if title == untitled {
			title = ""
		}
		p.current = &meeting.Meeting{Category: p.category, Title: title}
	}
	p.field = ""
}

func (p *parser) finish() {
	if p.current == nil {
		return
	}
	m := p.current
	m.Summary = strings.TrimSpace(m.Summary)
	m.Notes = strings.TrimSpace(m.Notes)
	m.ID = meeting.GenerateID(m.Category, m.Subcategory, m.Title, m.SourceURL)
	p.meetings = append(p.meetings, m)
	p.current = nil
}

func (p *parser) setField(raw string) {
	if p.current == nil {
		return
	}
	match := fieldPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return
	}
	label, value := strings.TrimSpace(match[1]), strings.TrimSpace(match[2])

	switch label {
	case labelCategory:
		if v := inlineValue(value); v != "" {
			p.current.Category = v
		}
	case labelSubcategory:
		p.current.Subcategory = inlineValue(value)
	case labelDate:
		if v := inlineValue(value); v != unknownValue {
			p.current.DateText = v
		}
	case labelLink:
		p.current.SourceURL = strings.Trim(value, "<>")
	case labelSummary:
		p.current.Summary = blockValue(value)
		p.field = labelSummary
	case labelNotes:
		p.current.Notes = blockValue(value)
		p.field = labelNotes
	}
}

// appendText adds a loose paragraph to the open summary or notes field
func (p *parser) appendText(s string) {
	if p.current == nil || s == "" {
		return
	}
	switch p.field {
	case labelSummary:
		p.current.Summary = joinParagraphs(p.current.Summary, s)
	case labelNotes:
		p.current.Notes = joinParagraphs(p.current.Notes, s)
	}
}

// blockText returns the source text of a block and its children. Nested lists keep
// their markers so list-shaped notes survive a round trip.
func (p *parser) blockText(n ast.Node) string {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(p.source))))
		}
		return strings.Join(parts, "\n")
	}

	var blocks []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if list, ok := c.(*ast.List); ok {
			blocks = append(blocks, p.listText(list))
			continue
		}
		if t := p.blockText(c); t != "" {
			blocks = append(blocks, t)
		}
	}

	sep := "\n"
	if list, ok := n.Parent().(*ast.List); ok && !list.IsTight {
		sep = "\n\n"
	}
	return strings.Join(blocks, sep)
}

func (p *parser) listText(list *ast.List) string {
	var items []string
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		items = append(items, marker+p.blockText(item))
	}
	return strings.Join(items, "\n")
}

// inlineValue unwraps `code` values and maps the empty marker to ""
func inlineValue(value string) string {
	if m := codePattern.FindStringSubmatch(value); m != nil {
		value = m[1]
	}
	value = strings.TrimSpace(value)
	if value == emptyValue {
		return ""
	}
	return value
}

func blockValue(value string) string {
	if strings.TrimSpace(value) == emptyValue {
		return ""
	}
	return value
}

func joinParagraphs(existing, s string) string {
	if existing == "" {
		return s
	}
	return existing + "\n" + s
}
