package flowed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWrap_ShortLineUnchanged(t *testing.T) {
	assert.Equal(t, "A short paragraph.", Wrap("A short paragraph.", ""))
	assert.Equal(t, "", Wrap("", ""))
}

func TestWrap_SoftBreaksLongParagraph(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 20))

	got := Wrap(text, "")
	lines := strings.Split(got, "\n")

	assert.Equal(t, 2, len(lines))
	// Every break is soft: the line keeps a trailing space.
	assert.True(t, strings.HasSuffix(lines[0], " "))
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 78)
	}
	// delsp=yes reflow: collapsing "space + break" back to a space restores
	// the original paragraph.
	assert.Equal(t, text, strings.ReplaceAll(got, " \n", " "))
}

func TestWrap_HardBreaksWithMixedIndent(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 20))

	got := Wrap(text, " * ")
	lines := strings.Split(got, "\n")

	assert.Equal(t, 2, len(lines))
	assert.Equal(t, " * "+strings.TrimSpace(strings.Repeat("word ", 15)), lines[0])
	assert.Equal(t, "   "+strings.TrimSpace(strings.Repeat("word ", 5)), lines[1])
	for _, line := range lines {
		assert.False(t, strings.HasSuffix(line, " "), "mixed indentation must not produce soft breaks")
	}
}

func TestWrap_ExistingBreaksMadeHard(t *testing.T) {
	assert.Equal(t, "Hello\nWorld", Wrap("Hello   \nWorld", ""))
}

func TestWrap_SignatureDelimiterKeepsTrailingSpace(t *testing.T) {
	assert.Equal(t, "Bye.\n-- \nBob", Wrap("Bye.\n-- \nBob", ""))
}

func TestWrap_SpaceStuffing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote marker", "> already quoted", " > already quoted"},
		{"mbox separator", "From the mailbox", " From the mailbox"},
		{"leading space", " leading space", "  leading space"},
		{"plain line", "nothing to stuff", "nothing to stuff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.in, ""))
		})
	}
}

func TestWrap_QuoteIndent(t *testing.T) {
	assert.Equal(t, ">Hello\n>World", Wrap("Hello\nWorld", ">"))
}

func TestWrap_MarkerIndentOnFirstLineOnly(t *testing.T) {
	assert.Equal(t, " * item", Wrap("item", " * "))
	// Continuation lines carry only the cleaned (marker-free) prefix.
	assert.Equal(t, " * first\n   second", Wrap("first\nsecond", " * "))
}

func TestWrap_ForceBreaksOverlongToken(t *testing.T) {
	text := strings.Repeat("x", 1500)

	got := Wrap(text, "")
	lines := strings.Split(got, "\n")

	assert.Equal(t, 2, len(lines))
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 997)
	}
	// The inserted break is soft, so delsp reflow restores the token.
	assert.Equal(t, text, strings.ReplaceAll(got, " \n", ""))
}

func TestWrap_ForceBreakRespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 600)

	got := Wrap(text, "")
	for _, line := range strings.Split(got, "\n") {
		assert.True(t, utf8.ValidString(line))
		assert.LessOrEqual(t, len(line), 997)
	}
}

func TestWrap_CollapsesSpaceOnlyLines(t *testing.T) {
	assert.Equal(t, "a\n\nb", Wrap("a\n   \nb", ""))
}

func TestCleanIndent(t *testing.T) {
	assert.Equal(t, ">>   ", CleanIndent(">> * "))
	assert.Equal(t, "   >", CleanIndent(" * >"))
	assert.Equal(t, "", CleanIndent(""))
}
