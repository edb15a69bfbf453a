package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Course Listing", "Section", "Meeting Patterns"},
		{"CS 2500 - Fundamentals", "01", "Mon Wed | 10:00 - 11:00"},
		{"MATH 1341 - Calculus 1", "02", "Tu Th | 1:00 PM - 2:15 PM"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CS 2500 - Fundamentals", rows[0].Get("Course Listing"))
	assert.Equal(t, "01", rows[0].Get("Section"))
	assert.Equal(t, "Tu Th | 1:00 PM - 2:15 PM", rows[1].Get("Meeting Patterns"))
}

func TestReadRows_ShortRowsDefaultToEmptyCells(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Course Listing", "Section", "Meeting Patterns"},
		{"CS 2500 - Fundamentals"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "CS 2500 - Fundamentals", rows[0].Get("Course Listing"))
	// Missing trailing cells decode to empty strings, not absent keys.
	assert.Contains(t, rows[0], "Section")
	assert.Equal(t, "", rows[0].Get("Section"))
	assert.Equal(t, "", rows[0].Get("Meeting Patterns"))
}

func TestReadRows_HeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Course Listing", "Section"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_GarbageInput(t *testing.T) {
	_, err := ReadRows(strings.NewReader("this is not a workbook"))
	assert.Error(t, err)
}
