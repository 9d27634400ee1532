package htmltext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sanitize parses markup as an HTML body fragment and renders it back with
// only the allowed tags, properly balanced and nested. Disallowed elements
// are stripped but keep their text content; the only attribute that
// survives is href on anchors. The structural walk depends on this pass:
// the indent and list stacks can only stay balanced on well-formed input.
func sanitize(markup string, allowed map[string]bool) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		// Parsing a fragment in practice never fails; degrade to text.
		return html.EscapeString(markup)
	}
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n, allowed)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *html.Node, allowed map[string]bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		name := n.Data
		if !allowed[name] {
			renderChildren(b, n, allowed)
			return
		}
		b.WriteString("<")
		b.WriteString(name)
		if name == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					b.WriteString(` href="`)
					b.WriteString(html.EscapeString(attr.Val))
					b.WriteString(`"`)
					break
				}
			}
		}
		if voidElements[name] {
			b.WriteString(" />")
			return
		}
		b.WriteString(">")
		renderChildren(b, n, allowed)
		b.WriteString("</")
		b.WriteString(name)
		b.WriteString(">")
	}
	// Comments and doctypes are dropped.
}

func renderChildren(b *strings.Builder, n *html.Node, allowed map[string]bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, allowed)
	}
}

var voidElements = map[string]bool{
	"br": true,
	"hr": true,
}
