package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/notion-meetings/internal/config"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

var reference = meeting.Date{Year: 2026, Month: time.February, Day: 12}

func newTestFormatter(out config.OutputConfig) *Formatter {
	f := New(out)
	f.now = func() time.Time {
		return time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC)
	}
	return f
}

func splitDocument(t *testing.T, doc string) (FrontMatter, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "---\n"), "document starts with front matter")

	parts := strings.SplitN(doc, "---\n", 3)
	require.Len(t, parts, 3)

	var fm FrontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	return fm, parts[2]
}

func TestFormatter_Meeting(t *testing.T) {
	f := newTestFormatter(config.Default().Output)
	m := &meeting.Meeting{
		Category:    "APP月會",
		Subcategory: "2026/02",
		Title:       "Weekly Sync",
		DateText:    "Last Tuesday",
		DisplayDate: "2026年02月10日",
		DateKey:     "2026-02-10",
		Summary:     "Agreed on the Q1 roadmap.",
		Notes:       "Roadmap review\n\n  Dashboard QA ",
		SourceURL:   "https://www.notion.so/so/abc",
	}

	out, err := f.Meeting(m, reference)
	require.NoError(t, err)

	fm, body := splitDocument(t, string(out))
	assert.Equal(t, FrontMatter{
		Category:    "APP月會",
		Subcategory: "2026/02",
		Date:        "2026-02-12",
		CrawledAt:   "2026-02-12T09:30:00Z",
	}, fm)

	for _, want := range []string{
		"## 📋 會議資訊\n\n| 項目 | 內容 |\n|------|------|\n",
		"| 分類 | APP月會 |\n",
		"| 子分類 | 2026/02 |\n",
		"| 日期 | 2026年02月10日 |\n",
		"## 📋 Weekly Sync\n\n",
		"## 📝 摘要\n\nAgreed on the Q1 roadmap.\n\n",
		"## 📓 筆記\n\n- Roadmap review\n- Dashboard QA\n\n",
		"## 🔗 原始連結\n\n[查看 Notion](https://www.notion.so/so/abc)\n",
	} {
		assert.Contains(t, body, want)
	}
	assert.True(t, strings.HasSuffix(body, "\n---\n"))
}

func TestFormatter_Meeting_OptionalSections(t *testing.T) {
	f := newTestFormatter(config.Default().Output)
	m := &meeting.Meeting{
		Category: "數據週會議",
		DateText: "sometime",
	}

	out, err := f.Meeting(m, reference)
	require.NoError(t, err)

	fm, body := splitDocument(t, string(out))
	assert.Empty(t, fm.Subcategory)
	assert.Contains(t, body, "| 日期 | sometime |")
	assert.NotContains(t, body, "子分類")
	assert.NotContains(t, body, "摘要")
	assert.NotContains(t, body, "筆記")
	assert.NotContains(t, body, "原始連結")
}

func TestFormatter_Filename(t *testing.T) {
	tests := []struct {
		name        string
		out         config.OutputConfig
		category    string
		subcategory string
		want        string
	}{
		{
			name:        "category and subcategory",
			out:         config.Default().Output,
			category:    "顧客洞察專案",
			subcategory: "2026/02",
			want:        "meetings-顧客洞察專案-2026-02-20260212.md",
		},
		{
			name:     "no subcategory",
			out:      config.Default().Output,
			category: "數據週會議",
			want:     "meetings-數據週會議-20260212.md",
		},
		{
			name:        "names sanitized",
			out:         config.Default().Output,
			category:    "Shopper自動化&發票快查",
			subcategory: "DM & CI",
			want:        "meetings-Shopper自動化and發票快查-DM_and_CI-20260212.md",
		},
		{
			name:     "custom date format",
			out:      config.OutputConfig{DateFormat: "%Y-%m-%d"},
			category: "GM雙週會",
			want:     "meetings-GM雙週會-2026-02-12.md",
		},
		{
			name:     "empty date format uses default",
			out:      config.OutputConfig{},
			category: "GM雙週會",
			want:     "meetings-GM雙週會-20260212.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.out)
			assert.Equal(t, tt.want, f.Filename(tt.category, tt.subcategory, reference))
		})
	}
}

func TestFormatter_Digest(t *testing.T) {
	f := newTestFormatter(config.Default().Output)
	meetings := []*meeting.Meeting{
		{Category: "APP月會", Title: "Weekly Sync", DisplayDate: "2026年02月10日", Summary: "Line one\nLine two", SourceURL: "https://example.com/so/1"},
		{Category: "APP月會", Subcategory: "2026/02", DateText: "Last Someday", Notes: "a\nb"},
		{Category: "GM雙週會", Title: "Biweekly"},
	}

	out := string(f.Digest(meetings, reference))

	assert.True(t, strings.HasPrefix(out, "# 會議記錄總整理\n\n> 日期：2026-02-12\n"))
	assert.Equal(t, 1, strings.Count(out, "## APP月會\n"))
	assert.Equal(t, 1, strings.Count(out, "## GM雙週會\n"))
	assert.Equal(t, 3, strings.Count(out, "- **類別**："))

	for _, want := range []string{
		"### Weekly Sync\n\n- **類別**：`APP月會`\n- **子類別**：`（無）`\n- **時間**：`2026年02月10日`\n- **連結**：https://example.com/so/1\n",
		"- **摘要**：Line one\n  Line two\n",
		"### （無標題）\n",
		"- **子類別**：`2026/02`\n- **時間**：`Last Someday`\n",
		"- **筆記**：a\n  b\n",
		"### Biweekly\n",
		"- **時間**：`（未知）`\n",
	} {
		assert.Contains(t, out, want)
	}
}
