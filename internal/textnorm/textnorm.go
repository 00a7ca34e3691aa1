// Package textnorm turns HTML feed descriptions into plain terminal text.
package textnorm

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// SummaryWords is the word budget of a summarized description.
	SummaryWords = 50
	// Ellipsis marks a summary that was cut short.
	Ellipsis = "..."
)

// Block level elements are replaced by a line break so that words on both
// sides of the tag stay separated. All other tags vanish without a trace.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Blockquote: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
}

var droppedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// Description renders an optional HTML description for display.
// A nil description yields "", which callers treat as nothing to print.
// Unless full is set the text is shortened with Summarize.
func Description(raw *string, full bool) string {
	if raw == nil {
		return ""
	}
	text := PlainText(*raw)
	if full {
		return text
	}
	return Summarize(text)
}

// PlainText strips markup from an HTML fragment, decodes entities and collapses
// every run of whitespace into a single space.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	dropped := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if dropped == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			a := tagAtom(z)
			if droppedTags[a] {
				dropped++
			}
			if blockTags[a] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			a := tagAtom(z)
			if droppedTags[a] && dropped > 0 {
				dropped--
			}
			if blockTags[a] {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			if blockTags[tagAtom(z)] {
				b.WriteByte('\n')
			}
		}
	}
}

func tagAtom(z *html.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}

// Summarize keeps the first SummaryWords words of text. When text is longer, the
// summary is cut after the last word in that window that ends a sentence, and the
// Ellipsis is appended. Without such a word the Ellipsis follows the last kept word.
// Text within the budget is returned unchanged.
func Summarize(text string) string {
	words := strings.Fields(text)
	if len(words) <= SummaryWords {
		return text
	}
	window := words[:SummaryWords]
	for i := len(window) - 1; i >= 0; i-- {
		if strings.HasSuffix(window[i], ".") {
			return strings.TrimRight(strings.Join(window[:i+1], " "), ".") + Ellipsis
		}
	}
	return strings.Join(window, " ") + Ellipsis
}
