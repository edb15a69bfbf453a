// Package sheet decodes an uploaded spreadsheet into an ordered row set.
// It is the only component that touches the workbook format; everything
// downstream operates on name-addressed rows.
package sheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	appLog "schedcal/internal/log"
	"schedcal/internal/schedule"
)

// ReadRows decodes the first worksheet of an xlsx payload. The first row is
// the header; every following row becomes a schedule.Row with empty-string
// defaults for missing cells. Unreadable or non-tabular input is the one
// fatal error class in the pipeline and is returned to the caller.
func ReadRows(r io.Reader) ([]schedule.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no worksheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("worksheet %q is empty", sheets[0])
	}

	header := raw[0]
	rows := make([]schedule.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(schedule.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	appLog.Debug("worksheet decoded", "sheet", sheets[0], "columns", len(header), "rows", len(rows))
	return rows, nil
}
