package util

import (
	"strings"
	"unicode/utf8"
)

const (
	// ChatLimit is the longest message the platform accepts.
	ChatLimit = 140
	// EchoWidth is where operator echo lines are broken.
	EchoWidth = 128
	ellipsis  = "..."
)

// CharLen counts characters, not bytes.
func CharLen(s string) int { return utf8.RuneCountInString(s) }

// TruncateEllipsis cuts s to at most limit characters, ending in "...".
func TruncateEllipsis(s string, limit int) string {
	if limit <= len(ellipsis) || CharLen(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-len(ellipsis)]) + ellipsis
}

// CollapseSpaces trims s and joins its words with single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WrapEcho breaks line once after width characters and indents the rest by
// indent spaces so it lines up under the message body.
func WrapEcho(line string, width, indent int) string {
	if width <= 0 || CharLen(line) <= width {
		return line
	}
	r := []rune(line)
	var b strings.Builder
	b.Grow(len(line) + indent + 1)
	b.WriteString(string(r[:width]))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString(string(r[width:]))
	return b.String()
}
