// Package htmltext renders a restricted HTML vocabulary into RFC 3676
// format=flowed plain text.
//
// Headings, lists, block quotes, and definition lists become indented text
// blocks; emphasis becomes /slashes/ and *stars*; links become numbered
// footnotes appended after the text. Input is sanitized and tag-balanced
// before the structural walk, so stray or foreign markup degrades to plain
// text instead of corrupting the indentation state.
package htmltext

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/pixelvide/mailflow/pkg/flowed"
)

// Total column width headings and rules are padded out to.
const padWidth = 79

// supportedTags is the full vocabulary the transformer understands. Anything
// else is stripped during sanitizing, keeping its text content.
var supportedTags = []string{
	"a", "em", "i", "strong", "b", "br", "p", "blockquote",
	"ul", "ol", "li", "dl", "dt", "dd",
	"h1", "h2", "h3", "h4", "h5", "h6", "hr",
}

var (
	emphasisPattern = regexp.MustCompile(`(?i)</?(?:em|i)(?: +[^>]*)?/?>`)
	strongPattern   = regexp.MustCompile(`(?i)</?(?:strong|b)(?: +[^>]*)?/?>`)
	// Labels spanning a line break are intentionally not matched; the
	// sanitizer-stripped tag leaves the bare label text behind.
	linkPattern = regexp.MustCompile(`(?i)<a[^>]+?href="([^"]*)"[^>]*?>(.+?)</a>`)
	tagPattern  = regexp.MustCompile(`<([^>]+?)>`)
)

// Transformer converts markup into flowed plain text. The zero value leaves
// relative link targets untouched; set BaseURL/BasePath to absolutize them.
type Transformer struct {
	// BaseURL is the absolute site URL, without a trailing slash.
	BaseURL string
	// BasePath is the path prefix local hrefs start with, usually "/".
	BasePath string
}

// New returns a Transformer resolving relative links against the given
// site base URL and path.
func New(baseURL, basePath string) *Transformer {
	return &Transformer{BaseURL: baseURL, BasePath: basePath}
}

// Transform renders markup into plain text. When allowedTags are given,
// only that subset of the supported vocabulary is interpreted; everything
// else is reduced to its text content.
func (t *Transformer) Transform(markup string, allowedTags ...string) string {
	markup = sanitize(markup, allowedSet(allowedTags))

	// Inline styles first, so the structural walk only sees block tags.
	markup = emphasisPattern.ReplaceAllString(markup, "/")
	markup = strongPattern.ReplaceAllString(markup, "*")

	s := &renderState{baseURL: t.BaseURL, basePath: t.BasePath}
	markup = linkPattern.ReplaceAllStringFunc(markup, s.footnoteLink)

	s.walk(markup)
	return s.out + s.footnotes()
}

// allowedSet intersects the requested tags with the supported vocabulary;
// an empty request means everything supported.
func allowedSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(supportedTags))
	if len(tags) == 0 {
		for _, tag := range supportedTags {
			set[tag] = true
		}
		return set
	}
	supported := make(map[string]bool, len(supportedTags))
	for _, tag := range supportedTags {
		supported[tag] = true
	}
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		if supported[tag] {
			set[tag] = true
		}
	}
	return set
}

// listMarker tracks one open list: a bullet list, or a numbered list with
// its running counter.
type listMarker struct {
	numbered bool
	next     int
}

// renderState is the per-call state of a transformation: accumulated
// output, the indentation and list stacks, the heading casing flag, and the
// footnote URL table. A fresh state is built for every Transform call.
type renderState struct {
	out    string
	indent []string
	lists  []listMarker
	upper  bool
	urls   []string

	baseURL  string
	basePath string
}

// tagActions holds what a structural tag does on open and close.
type tagActions struct {
	open  func(s *renderState)
	close func(s *renderState)
}

var actions = map[string]tagActions{
	"ul":         {open: (*renderState).openBulletList, close: (*renderState).closeList},
	"ol":         {open: (*renderState).openNumberedList, close: (*renderState).closeList},
	"li":         {open: (*renderState).openItem, close: (*renderState).popIndent},
	"blockquote": {open: (*renderState).openQuote, close: (*renderState).closeQuote},
	"dd":         {open: pushIndent("    "), close: (*renderState).popIndent},
	"dl":         {close: (*renderState).blankLine},
	"p":          {close: (*renderState).blankLine},
	"h1":         {open: openBigHeading("======== "), close: closeBigHeading('=')},
	"h2":         {open: openBigHeading("-------- "), close: closeBigHeading('-')},
	"h3":         {open: pushIndent(".... "), close: (*renderState).closeSmallHeading},
	"h4":         {open: pushIndent(".. "), close: (*renderState).closeSmallHeading},
	"h5":         {close: (*renderState).blankLine},
	"h6":         {close: (*renderState).blankLine},
	"hr":         {open: (*renderState).rule},
}

// walk splits the markup into alternating text runs and tags and feeds them
// through the action table.
func (s *renderState) walk(markup string) {
	pos := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(markup, -1) {
		s.text(markup[pos:m[0]])
		s.tag(markup[m[2]:m[3]])
		pos = m[1]
	}
	s.text(markup[pos:])
}

// text emits a run of character data. Structurally redundant surrounding
// whitespace is dropped, internal line breaks are kept.
func (s *renderState) text(run string) {
	run = strings.TrimSpace(html.UnescapeString(run))
	if run == "" {
		return
	}
	s.emit(run)
}

// tag dispatches one tag token to its open or close action.
func (s *renderState) tag(token string) {
	name, _, _ := strings.Cut(strings.ToLower(token), " ")
	closing := strings.HasPrefix(name, "/")
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimSuffix(name, "/") // self-closed void tags

	act, ok := actions[name]
	if !ok {
		return
	}
	if closing {
		if act.close != nil {
			act.close(s)
		}
	} else if act.open != nil {
		act.open(s)
	}
}

// emit wraps a chunk with the current indentation and appends it. Once a
// chunk is out, visual markers in the indent stack must not repeat on the
// block's continuation lines, so every entry is reduced to its quote
// markers.
func (s *renderState) emit(chunk string) {
	if s.upper {
		chunk = strings.ToUpper(chunk)
	}
	s.out += flowed.Wrap(chunk, strings.Join(s.indent, "")) + "\n"
	for i, entry := range s.indent {
		s.indent[i] = flowed.CleanIndent(entry)
	}
}

// blankLine forces a block boundary.
func (s *renderState) blankLine() {
	s.emit("")
}

func (s *renderState) openBulletList() {
	s.lists = append([]listMarker{{}}, s.lists...)
}

func (s *renderState) openNumberedList() {
	s.lists = append([]listMarker{{numbered: true, next: 1}}, s.lists...)
}

func (s *renderState) closeList() {
	if len(s.lists) > 0 {
		s.lists = s.lists[1:]
	}
	s.blankLine()
}

func (s *renderState) openItem() {
	if len(s.lists) > 0 && s.lists[0].numbered {
		s.indent = append(s.indent, fmt.Sprintf(" %d) ", s.lists[0].next))
		s.lists[0].next++
	} else {
		s.indent = append(s.indent, " * ")
	}
}

func (s *renderState) openQuote() {
	// Format=flowed quote markers cannot be mixed with list indentation;
	// inside a list the quote is rendered with a literal quote mark.
	if len(s.lists) > 0 {
		s.indent = append(s.indent, ` "`)
	} else {
		s.indent = append(s.indent, ">")
	}
}

func (s *renderState) closeQuote() {
	if len(s.lists) > 0 {
		// Close the inline quote immediately, bypassing the wrap pipeline.
		s.out = strings.TrimRight(s.out, "> \n") + "\"\n"
		s.popIndent()
		s.blankLine()
		return
	}
	s.popIndent()
}

func (s *renderState) closeSmallHeading() {
	s.popIndent()
	s.blankLine()
}

func (s *renderState) popIndent() {
	if len(s.indent) > 0 {
		s.indent = s.indent[:len(s.indent)-1]
	}
}

func pushIndent(prefix string) func(*renderState) {
	return func(s *renderState) {
		s.indent = append(s.indent, prefix)
	}
}

func openBigHeading(prefix string) func(*renderState) {
	return func(s *renderState) {
		s.indent = append(s.indent, prefix)
		s.upper = true
	}
}

func closeBigHeading(fill byte) func(*renderState) {
	return func(s *renderState) {
		s.upper = false
		s.out = pad(s.out, fill, " ")
		s.popIndent()
		s.blankLine()
	}
}

// rule emits a horizontal rule: an empty wrapped line, padded to full width
// with dashes.
func (s *renderState) rule() {
	s.out += flowed.Wrap("", strings.Join(s.indent, "")) + "\n"
	s.out = pad(s.out, '-', "")
}

// footnoteLink replaces one anchor with "label [n]" and records its target
// in the footnote table. Every occurrence gets its own footnote, in
// document order.
func (s *renderState) footnoteLink(anchor string) string {
	m := linkPattern.FindStringSubmatch(anchor)
	url := html.UnescapeString(m[1])
	s.urls = append(s.urls, s.absoluteURL(url))
	return m[2] + " [" + strconv.Itoa(len(s.urls)) + "]"
}

// absoluteURL resolves a site-local URL against the configured base URL.
func (s *renderState) absoluteURL(url string) string {
	if strings.Contains(url, "://") {
		return url
	}
	if s.basePath != "" && strings.HasPrefix(url, s.basePath) {
		return s.baseURL + "/" + url[len(s.basePath):]
	}
	return url
}

// footnotes renders the trailing "[n] URL" block.
func (s *renderState) footnotes() string {
	if len(s.urls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, url := range s.urls {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, url)
	}
	return b.String()
}

// pad fills the last line of already-wrapped text out to the full column
// width: the trailing break is removed, the optional prefix and repeated
// fill character are appended, and the break restored.
func pad(text string, fill byte, prefix string) string {
	text = strings.TrimSuffix(text, "\n")
	last := strings.LastIndexByte(text, '\n')
	lineLen := len(text) - last - 1
	n := padWidth - lineLen - len(prefix)
	if n < 0 {
		n = 0
	}
	return text + prefix + strings.Repeat(string(fill), n) + "\n"
}
