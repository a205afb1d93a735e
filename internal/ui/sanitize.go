package ui

import (
	"html/template"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[atom.Atom]bool{
	atom.A: true, atom.B: true, atom.Br: true, atom.Em: true, atom.I: true,
	atom.Li: true, atom.Ol: true, atom.P: true, atom.Strong: true, atom.Ul: true,
	atom.H3: true, atom.H4: true, atom.Span: true, atom.Div: true,
}

// dropped along with everything inside them
var discardTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Object: true,
	atom.Noscript: true, atom.Template: true,
}

// Sanitize renders upstream description markup keeping a small allow-list
// of formatting tags. Attributes are dropped except http(s) links on <a>.
func Sanitize(raw string) template.HTML {
	if strings.TrimSpace(raw) == "" {
		return template.HTML(template.HTMLEscapeString(NoDescription))
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	skip := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return template.HTML(template.HTMLEscapeString(raw))
			}
			break
		}

		tok := z.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if discardTags[tok.DataAtom] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.DataAtom] {
				continue
			}
			writeStart(&b, tok)
		case html.EndTagToken:
			if discardTags[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.DataAtom] || tok.DataAtom == atom.Br {
				continue
			}
			b.WriteString("</" + tok.DataAtom.String() + ">")
		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(tok.Data))
			}
		}
	}

	return template.HTML(b.String())
}

func writeStart(b *strings.Builder, tok html.Token) {
	name := tok.DataAtom.String()
	if tok.DataAtom != atom.A {
		b.WriteString("<" + name + ">")
		return
	}

	b.WriteString("<a")
	for _, attr := range tok.Attr {
		if attr.Namespace == "" && attr.Key == "href" && safeHref(attr.Val) {
			b.WriteString(` href="` + html.EscapeString(attr.Val) + `" target="_blank" rel="noopener noreferrer"`)
			break
		}
	}
	b.WriteString(">")
}

func safeHref(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")
}
