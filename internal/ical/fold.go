package ical

import (
	"strings"
	"unicode/utf8"
)

// maxLineOctets is the RFC 5545 content-line limit; longer lines are folded
// with a CRLF followed by a single space.
const maxLineOctets = 75

// foldDocument serializes content lines with CRLF endings, folding every
// line that exceeds the octet limit. Folding is unconditional so the output
// is always wire-format compliant.
func foldDocument(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		for _, part := range foldLine(line) {
			b.WriteString(part)
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

// foldLine splits a content line at the octet limit, backing off so a
// multi-byte UTF-8 sequence is never split. Continuation parts begin with a
// single space that counts toward the limit of the following line.
func foldLine(line string) []string {
	if len(line) <= maxLineOctets {
		return []string{line}
	}

	var parts []string
	for len(line) > maxLineOctets {
		cut := maxLineOctets
		for cut > 1 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		parts = append(parts, line[:cut])
		line = " " + line[cut:]
	}
	return append(parts, line)
}
