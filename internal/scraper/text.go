package scraper

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockBreaks holds the number of line breaks an element forces around its content.
// Paragraph-like elements leave an empty line, other block elements a single break.
var blockBreaks = map[atom.Atom]int{
	atom.P:          2,
	atom.H1:         2,
	atom.H2:         2,
	atom.H3:         2,
	atom.H4:         2,
	atom.H5:         2,
	atom.H6:         2,
	atom.Address:    1,
	atom.Article:    1,
	atom.Aside:      1,
	atom.Blockquote: 1,
	atom.Dd:         1,
	atom.Details:    1,
	atom.Div:        1,
	atom.Dl:         1,
	atom.Dt:         1,
	atom.Figcaption: 1,
	atom.Figure:     1,
	atom.Footer:     1,
	atom.Form:       1,
	atom.Header:     1,
	atom.Hr:         1,
	atom.Li:         1,
	atom.Main:       1,
	atom.Nav:        1,
	atom.Ol:         1,
	atom.Pre:        1,
	atom.Section:    1,
	atom.Summary:    1,
	atom.Table:      1,
	atom.Tr:         1,
	atom.Ul:         1,
}

var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// textWriter accumulates text and collapses adjacent block breaks into the largest one
type textWriter struct {
	b       strings.Builder
	pending int
	space   bool
}

func (w *textWriter) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}

	if w.b.Len() > 0 {
		first, _ := utf8.DecodeRuneInString(s)
		switch {
		case w.pending > 0:
			w.b.WriteString(strings.Repeat("\n", w.pending))
		case w.space || unicode.IsSpace(first):
			w.b.WriteByte(' ')
		}
	}
	w.pending = 0
	w.b.WriteString(strings.Join(words, " "))

	last, _ := utf8.DecodeLastRuneInString(s)
	w.space = unicode.IsSpace(last)
}

func (w *textWriter) lineBreak(n int) {
	if n > w.pending {
		w.pending = n
		w.space = false
	}
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			if w.b.Len() > 0 {
				w.b.WriteString(strings.Repeat("\n", max(w.pending, 1)))
			}
			w.pending = 0
			w.space = false
			return
		}
	}

	breaks := 0
	if n.Type == html.ElementNode {
		breaks = blockBreaks[n.DataAtom]
	}
	w.lineBreak(breaks)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.lineBreak(breaks)
}

// String returns the text with every line trimmed
func (w *textWriter) String() string {
	lines := strings.Split(w.b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// blockText returns the rendered text of sel with line breaks at block boundaries
func blockText(sel *goquery.Selection) string {
	var w textWriter
	for _, n := range sel.Nodes {
		w.walk(n)
	}
	return w.String()
}
