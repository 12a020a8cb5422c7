package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/pfrederiksen/notion-meetings/internal/config"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDateFormat is the strftime layout used in filenames
	DefaultDateFormat = "%Y%m%d"

	noTitle   = "（無標題）"
	none      = "（無）"
	noDate    = "（未知）"
	linkLabel = "查看 Notion"
)

// FrontMatter is the YAML header of a meeting document
type FrontMatter struct {
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
	// Date is the reference date the meeting was selected for, YYYY-MM-DD
	Date      string `yaml:"date"`
	CrawledAt string `yaml:"crawled_at"`
}

// Formatter renders meetings using the output settings
type Formatter struct {
	dateFormat string
	sanitize   config.SanitizeConfig
	now        func() time.Time
}

// New creates a Formatter from the output configuration
func New(out config.OutputConfig) *Formatter {
	dateFormat := out.DateFormat
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Formatter{
		dateFormat: dateFormat,
		sanitize:   out.Sanitize.WithDefaults(),
		now:        time.Now,
	}
}

// Filename returns meetings-{category}-{subcategory}-{date}.md, leaving out the
// subcategory part when it is empty
func (f *Formatter) Filename(category, subcategory string, date meeting.Date) string {
	parts := []string{"meetings", Sanitize(category, f.sanitize)}
	if sub := Sanitize(subcategory, f.sanitize); sub != "" {
		parts = append(parts, sub)
	}
	parts = append(parts, strftime.Format(f.dateFormat, date.Time()))
	return strings.Join(parts, "-") + ".md"
}

// Meeting renders m as a markdown document. reference is the date the meeting was
// selected for and goes into the front matter.
func (f *Formatter) Meeting(m *meeting.Meeting, reference meeting.Date) ([]byte, error) {
	var buf bytes.Buffer

	fm := FrontMatter{
		Category:    m.Category,
		Subcategory: m.Subcategory,
		Date:        reference.Key(),
		CrawledAt:   f.now().Format(time.RFC3339),
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	buf.WriteString("## 📋 會議資訊\n\n")
	buf.WriteString("| 項目 | 內容 |\n")
	buf.WriteString("|------|------|\n")
	fmt.Fprintf(&buf, "| 分類 | %s |\n", tableCell(m.Category))
	if m.Subcategory != "" {
		fmt.Fprintf(&buf, "| 子分類 | %s |\n", tableCell(m.Subcategory))
	}
	fmt.Fprintf(&buf, "| 日期 | %s |\n", tableCell(displayDate(m)))
	buf.WriteString("\n---\n\n")

	if m.Title != "" {
		fmt.Fprintf(&buf, "## 📋 %s\n\n", m.Title)
	}

	if m.Summary != "" {
		buf.WriteString("## 📝 摘要\n\n")
		buf.WriteString(m.Summary)
		buf.WriteString("\n\n")
	}

	if m.Notes != "" {
		buf.WriteString("## 📓 筆記\n\n")
		for _, line := range strings.Split(m.Notes, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&buf, "- %s\n", line)
			}
		}
		buf.WriteString("\n")
	}

	if m.SourceURL != "" {
		buf.WriteString("## 🔗 原始連結\n\n")
		fmt.Fprintf(&buf, "[%s](%s)\n\n", linkLabel, m.SourceURL)
	}

	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

// Digest renders all meetings into one document grouped by category, in the order given
func (f *Formatter) Digest(meetings []*meeting.Meeting, reference meeting.Date) []byte {
	var buf bytes.Buffer

	buf.WriteString("# 會議記錄總整理\n\n")
	fmt.Fprintf(&buf, "> 日期：%s\n", reference.Key())
	buf.WriteString("> 來源：Notion 公開頁面\n\n")
	buf.WriteString("---\n\n")

	current := ""
	for i, m := range meetings {
		if i == 0 || m.Category != current {
			current = m.Category
			fmt.Fprintf(&buf, "## %s\n\n", current)
		}

		fmt.Fprintf(&buf, "### %s\n\n", orDefault(m.Title, noTitle))
		fmt.Fprintf(&buf, "- **類別**：`%s`\n", m.Category)
		fmt.Fprintf(&buf, "- **子類別**：`%s`\n", orDefault(m.Subcategory, none))
		fmt.Fprintf(&buf, "- **時間**：`%s`\n", orDefault(displayDate(m), noDate))
		if m.SourceURL != "" {
			fmt.Fprintf(&buf, "- **連結**：%s\n", m.SourceURL)
		}
		fmt.Fprintf(&buf, "- **摘要**：%s\n", indentContinuation(orDefault(m.Summary, none)))
		fmt.Fprintf(&buf, "- **筆記**：%s\n", indentContinuation(orDefault(m.Notes, none)))
		buf.WriteString("\n---\n\n")
	}

	return buf.Bytes()
}

// displayDate prefers the resolved display date over the raw text
func displayDate(m *meeting.Meeting) string {
	if m.DisplayDate != "" {
		return m.DisplayDate
	}
	return m.DateText
}

// indentContinuation keeps multi-line values inside their list item
func indentContinuation(s string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = "  " + lines[i]
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func tableCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
