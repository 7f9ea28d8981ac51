package services

import (
	"bytes"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
)

var requiredJDColumns = []string{"position", "requirements", "responsibilities"}

// ParseJDSpreadsheet reads job descriptions from the first worksheet. Row 1
// holds column names; every later row becomes one map keyed by those names.
// Blank cells are left out and rows without a position are skipped.
func ParseJDSpreadsheet(data []byte) ([]map[string]any, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation("spreadsheet is empty")
	}

	rows, err := firstSheetRows(data)
	if err != nil {
		return nil, err
	}

	var header []string
	if len(rows) > 0 {
		header = make([]string, len(rows[0]))
		for i, name := range rows[0] {
			header[i] = strings.TrimSpace(name)
		}
	}

	for _, col := range requiredJDColumns {
		if !slices.Contains(header, col) {
			return nil, apperrors.ValidationField(col, "missing required column: "+col)
		}
	}

	jds := make([]map[string]any, 0, len(rows))
	for _, row := range rows[1:] {
		jd := make(map[string]any)
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			jd[header[i]] = cell
		}

		position, _ := jd["position"].(string)
		if strings.TrimSpace(position) == "" {
			continue
		}
		jds = append(jds, jd)
	}

	return jds, nil
}

func firstSheetRows(data []byte) ([][]string, error) {
	var sheets []sheet
	if bytes.HasPrefix(data, oleMagic) {
		var err error
		sheets, err = readXLSSheets(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "failed to read XLS spreadsheet")
		}
	} else {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "failed to read XLSX spreadsheet")
		}
		defer f.Close()

		sheets, err = readXLSXSheets(f)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "failed to read XLSX spreadsheet")
		}
	}

	if len(sheets) == 0 {
		return nil, apperrors.Validation("spreadsheet has no worksheets")
	}
	return sheets[0].Rows, nil
}
