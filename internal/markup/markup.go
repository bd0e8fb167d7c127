// Package markup cleans clue answers for display.
//
// Answers from the trivia source sometimes carry inline formatting such as
// <i>Hamlet</i>. The board shows answers as HTML, so only a small set of
// inline tags is kept; everything else is escaped as text.
package markup

import (
	"html"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowed = map[atom.Atom]bool{
	atom.I:      true,
	atom.B:      true,
	atom.Em:     true,
	atom.Strong: true,
	atom.U:      true,
	atom.Br:     true,
}

// Sanitize returns s with allowed inline tags kept (attributes dropped)
// and all other markup escaped.
func Sanitize(s string) string {
	var sb strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if z.Err() != io.EOF {
				// Unparseable remainder is shown as text.
				sb.WriteString(html.EscapeString(string(z.Raw())))
			}
			return strings.TrimSpace(sb.String())
		}
		raw := string(z.Raw())
		switch tt {
		case xhtml.TextToken:
			// Text tokens are raw source; unescape then re-escape to normalise entities.
			sb.WriteString(html.EscapeString(html.UnescapeString(raw)))
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			if !allowed[tok.DataAtom] {
				sb.WriteString(html.EscapeString(raw))
				continue
			}
			if tok.DataAtom == atom.Br {
				sb.WriteString("<br>")
				continue
			}
			sb.WriteString("<" + tok.Data + ">")
		case xhtml.EndTagToken:
			tok := z.Token()
			if !allowed[tok.DataAtom] || tok.DataAtom == atom.Br {
				sb.WriteString(html.EscapeString(raw))
				continue
			}
			sb.WriteString("</" + tok.Data + ">")
		default:
			// comments, doctypes
			sb.WriteString(html.EscapeString(raw))
		}
	}
}

// Plain strips all markup and returns the text content, for sinks that
// cannot render HTML (the terminal client).
func Plain(s string) string {
	var sb strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return strings.TrimSpace(sb.String())
		case xhtml.TextToken:
			sb.WriteString(html.UnescapeString(string(z.Raw())))
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				sb.WriteString("\n")
			}
		}
	}
}
