// Package flowed wraps plain text into RFC 3676 "format=flowed" lines.
//
// Flowed text uses a trailing space before a line break (a "soft" break) so
// compliant readers can reflow paragraphs, while staying readable in plain
// viewers. Lines that could be mistaken for protocol markers (quote '>',
// leading space, or "From") are space-stuffed per RFC 3676 section 4.
package flowed

import (
	"strings"
	"unicode/utf8"
)

// Preferred wrapping width. Quoting a flowed message adds characters in
// front of every line, so stay a little under the classic 78.
const wrapWidth = 77

// Hard protocol limit on line length, excluding the break itself.
const maxWidth = 996

// Wrap formats text as format=flowed lines, indented with the given prefix.
//
// Soft breaks are used only when the cleaned prefix carries no literal
// space, i.e. pure quote-marker indentation; mixing soft breaks with other
// indentation is ambiguous to flowed-aware readers, so those get hard
// breaks. Existing line breaks are made hard, except directly after a
// signature delimiter line (RFC 3676 section 4.3). The prefix is applied to
// every line, reduced to its quote markers on continuation lines.
func Wrap(text, indent string) string {
	// Line feeds only on output.
	text = strings.ReplaceAll(text, "\r", "")

	clean := CleanIndent(indent)
	soft := !strings.Contains(clean, " ")

	if strings.Contains(text, "\n") {
		lines := strings.Split(text, "\n")
		for i := range lines {
			if i < len(lines)-1 {
				lines[i] = hardenBreak(lines[i])
			}
			lines[i] = wrapLine(lines[i], soft, len(indent))
		}
		text = strings.Join(lines, "\n")
	} else {
		text = wrapLine(text, soft, len(indent))
	}

	text = collapseSpaceLines(text)
	text = spaceStuff(text)

	if indent != "" {
		lines := strings.Split(text, "\n")
		for i := range lines {
			lines[i] = clean + lines[i]
		}
		// Continuation lines keep only the quote markers; the first line
		// carries the full prefix.
		text = indent + strings.Join(lines, "\n")[len(indent):]
	}
	return text
}

// CleanIndent reduces an indentation prefix to its quote markers, turning
// every other character into a space. The result has the same length as the
// input.
func CleanIndent(indent string) string {
	var b strings.Builder
	b.Grow(len(indent))
	for i := 0; i < len(indent); i++ {
		if indent[i] == '>' {
			b.WriteByte('>')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// hardenBreak strips the trailing spaces that would make the following
// break soft. A lone signature delimiter keeps its single trailing space.
func hardenBreak(line string) string {
	trimmed := strings.TrimRight(line, " ")
	if trimmed == "--" && line == "-- " {
		return line
	}
	return trimmed
}

// wrapLine word-wraps one break-free line: first at the preferred width,
// then force-breaking any remaining over-long token at the protocol limit.
func wrapLine(line string, soft bool, indentLen int) string {
	brk := "\n"
	if soft {
		brk = " \n"
	}
	wrapped := wordWrap(line, wrapWidth-indentLen, brk)
	segments := strings.Split(wrapped, brk)
	for i, segment := range segments {
		segments[i] = forceBreak(segment, maxWidth-indentLen, brk)
	}
	return strings.Join(segments, brk)
}

// wordWrap breaks s at spaces so no output segment exceeds width bytes,
// inserting brk in place of the space it breaks at. Tokens longer than
// width are left intact.
func wordWrap(s string, width int, brk string) string {
	if width < 1 {
		width = 1
	}
	if len(s) <= width {
		return s
	}
	words := strings.Split(s, " ")
	var b strings.Builder
	lineLen := len(words[0])
	b.WriteString(words[0])
	for _, word := range words[1:] {
		if lineLen+1+len(word) > width {
			b.WriteString(brk)
			b.WriteString(word)
			lineLen = len(word)
		} else {
			b.WriteByte(' ')
			b.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return b.String()
}

// forceBreak splits a segment that still exceeds width, cutting between
// runes so multi-byte characters survive.
func forceBreak(s string, width int, brk string) string {
	if width < 1 {
		width = 1
	}
	if len(s) <= width {
		return s
	}
	var b strings.Builder
	lineLen := 0
	for _, r := range s {
		rl := utf8.RuneLen(r)
		if lineLen > 0 && lineLen+rl > width {
			b.WriteString(brk)
			lineLen = 0
		}
		b.WriteRune(r)
		lineLen += rl
	}
	return b.String()
}

// collapseSpaceLines empties lines consisting of nothing but spaces. The
// final line is left alone; it has no break following it.
func collapseSpaceLines(text string) string {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		if lines[i] != "" && strings.Trim(lines[i], " ") == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// spaceStuff prefixes a space to any line a flowed reader could misparse:
// quote markers, leading spaces, and the mbox "From" separator.
func spaceStuff(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, ">") || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "From") {
			lines[i] = " " + line
		}
	}
	return strings.Join(lines, "\n")
}
