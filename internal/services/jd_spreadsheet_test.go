package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
)

func TestParseJDSpreadsheet(t *testing.T) {
	data := buildTestXLSX(t, []sheet{
		{Name: "JDs", Rows: [][]string{
			{" position ", "category", "requirements", "responsibilities"},
			{"Backend Engineer", "Engineering", "Go, SQL", "Build APIs"},
			{"", "Engineering", "nothing", "orphan row"},
			{"Designer", "", "Figma", "Design screens"},
		}},
		{Name: "Ignored", Rows: [][]string{
			{"position", "requirements", "responsibilities"},
			{"Should not appear", "x", "y"},
		}},
	}, nil)

	jds, err := ParseJDSpreadsheet(data)

	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"position": "Backend Engineer", "category": "Engineering", "requirements": "Go, SQL", "responsibilities": "Build APIs"},
		{"position": "Designer", "requirements": "Figma", "responsibilities": "Design screens"},
	}, jds)
}

func TestParseJDSpreadsheet_HeaderOnly(t *testing.T) {
	data := buildTestXLSX(t, []sheet{
		{Name: "JDs", Rows: [][]string{{"position", "requirements", "responsibilities"}}},
	}, nil)

	jds, err := ParseJDSpreadsheet(data)

	require.NoError(t, err)
	assert.Empty(t, jds)
}

func TestParseJDSpreadsheet_MissingColumn(t *testing.T) {
	data := buildTestXLSX(t, []sheet{
		{Name: "JDs", Rows: [][]string{
			{"position", "requirements"},
			{"Backend Engineer", "Go"},
		}},
	}, nil)

	_, err := ParseJDSpreadsheet(data)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "responsibilities", apperrors.GetField(err))
	assert.Contains(t, err.Error(), "responsibilities")
}

func TestParseJDSpreadsheet_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a workbook", []byte("position,requirements,responsibilities\n")},
		{"truncated OLE container", append(append([]byte{}, oleMagic...), 0x00, 0x01)},
		{"OLE header without directory", xlsPrefix(t, 512)},
		{"workbook stream cut off", xlsPrefix(t, 1536)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJDSpreadsheet(tt.data)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func xlsPrefix(t *testing.T, n int) []byte {
	t.Helper()
	return append([]byte{}, readTestXLS(t)[:n]...)
}

func TestReadXLSSheets(t *testing.T) {
	sheets, err := readXLSSheets(bytes.NewReader(readTestXLS(t)))

	require.NoError(t, err)
	assert.Equal(t, []sheet{
		{Name: "Openings", Rows: [][]string{
			{"position", "category", "requirements", "responsibilities"},
			{"Backend Engineer", "Engineering", "Go, PostgreSQL", "Build APIs"},
			nil,
			{"Data Analyst", "Analytics", "SQL"},
			{"", "Ops", "on-call", "no position"},
		}},
		{Name: "Notes", Rows: [][]string{
			{"owner"},
			{"HR", "quarterly review"},
		}},
	}, sheets)
}

func TestParseJDSpreadsheet_XLS(t *testing.T) {
	jds, err := ParseJDSpreadsheet(readTestXLS(t))

	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"position": "Backend Engineer", "category": "Engineering", "requirements": "Go, PostgreSQL", "responsibilities": "Build APIs"},
		{"position": "Data Analyst", "category": "Analytics", "requirements": "SQL"},
	}, jds)
}
