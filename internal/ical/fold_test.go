package ical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldLine_ShortLineUntouched(t *testing.T) {
	assert.Equal(t, []string{"SUMMARY:short"}, foldLine("SUMMARY:short"))

	// Exactly at the limit: still one part.
	line := strings.Repeat("a", 75)
	assert.Equal(t, []string{line}, foldLine(line))
}

func TestFoldLine_LongLine(t *testing.T) {
	line := "DESCRIPTION:" + strings.Repeat("a", 200)
	parts := foldLine(line)
	require.Greater(t, len(parts), 1)

	for i, part := range parts {
		assert.LessOrEqual(t, len(part), 75, "part %d", i)
		if i > 0 {
			assert.True(t, strings.HasPrefix(part, " "), "continuation %d must start with a space", i)
		}
	}

	// Unfolding reconstructs the original line.
	var unfolded strings.Builder
	for i, part := range parts {
		if i > 0 {
			part = part[1:]
		}
		unfolded.WriteString(part)
	}
	assert.Equal(t, line, unfolded.String())
}

func TestFoldLine_NeverSplitsUTF8Sequences(t *testing.T) {
	line := "DESCRIPTION:" + strings.Repeat("é", 100)
	parts := foldLine(line)
	require.Greater(t, len(parts), 1)

	for i, part := range parts {
		if i > 0 {
			part = part[1:]
		}
		assert.True(t, strings.ToValidUTF8(part, "") == part, "part %d splits a rune", i)
	}
}

func TestFoldDocument(t *testing.T) {
	doc := foldDocument([]string{"BEGIN:VCALENDAR", "X:" + strings.Repeat("b", 100), "END:VCALENDAR"})

	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(doc, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75)
	}
	assert.Contains(t, doc, "\r\n ")
}
