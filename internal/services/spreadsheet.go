package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/extrame/xls"
	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte("PK\x03\x04")
)

// sheet is one worksheet read into memory, rows in order.
type sheet struct {
	Name string
	Rows [][]string
}

// spreadsheetKindFromBytes trusts the container signature over the declared
// kind: legacy workbooks are OLE2 compound files, modern ones are zip archives.
func spreadsheetKindFromBytes(data []byte, declared models.DocumentKind) models.DocumentKind {
	switch {
	case bytes.HasPrefix(data, oleMagic):
		return models.KindXLS
	case bytes.HasPrefix(data, zipMagic):
		return models.KindXLSX
	default:
		return declared
	}
}

// renderWorkbook turns every sheet of a workbook into a plain-text table with
// a "===== Sheet: name =====" banner. XLSX cell comments are appended at the end.
func renderWorkbook(filePath string, kind models.DocumentKind) (string, error) {
	var (
		sheets []sheet
		err    error
	)
	switch kind {
	case models.KindXLS:
		sheets, err = readXLSFile(filePath)
	default:
		sheets, err = readXLSXFile(filePath)
	}
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(sheets)*3)
	for _, s := range sheets {
		parts = append(parts, fmt.Sprintf("===== Sheet: %s =====", s.Name))
		parts = append(parts, renderRows(s.Rows))
		parts = append(parts, "\n")
	}
	text := strings.Join(parts, "\n")

	if kind == models.KindXLSX {
		comments, err := collectXLSXComments(filePath)
		if err != nil {
			log.Printf("⚠️ Failed to read workbook comments: %v", err)
		}
		for _, c := range comments {
			text += c
		}
	}

	return text, nil
}

// renderRows lays rows out as an aligned, borderless table. The first row is
// treated as the header; ragged rows are padded to the widest one.
func renderRows(rows [][]string) string {
	rows = trimTrailingEmptyRows(rows)
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return ""
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		for j := range cells {
			cells[j] = strings.ReplaceAll(cells[j], "\n", " ")
		}
		padded[i] = cells
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetHeader(padded[0])
	table.AppendBulk(padded[1:])
	table.Render()

	return strings.TrimRight(buf.String(), "\n")
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readXLSXFile(filePath string) ([]sheet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX workbook: %w", err)
	}
	defer f.Close()

	return readXLSXSheets(f)
}

func readXLSXSheets(f *excelize.File) ([]sheet, error) {
	names := f.GetSheetList()
	sheets := make([]sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// collectXLSXComments returns one "\ncomment (<sheet> <cell>): <text>" entry
// per cell comment, sheets in workbook order and cells in row-major order.
func collectXLSXComments(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX workbook: %w", err)
	}
	defer f.Close()

	var out []string
	for _, name := range f.GetSheetList() {
		comments, err := f.GetComments(name)
		if err != nil {
			return out, fmt.Errorf("failed to read comments of sheet %q: %w", name, err)
		}

		sort.SliceStable(comments, func(i, j int) bool {
			return cellOrder(comments[i].Cell) < cellOrder(comments[j].Cell)
		})

		for _, c := range comments {
			out = append(out, fmt.Sprintf("\ncomment (%s %s): %s", name, c.Cell, commentText(c)))
		}
	}
	return out, nil
}

func commentText(c excelize.Comment) string {
	var b strings.Builder
	b.WriteString(c.Text)
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

// cellOrder maps a cell reference to a sortable row-major position.
func cellOrder(cell string) int {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return 0
	}
	return row*excelize.MaxColumns + col
}

func readXLSFile(filePath string) ([]sheet, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS workbook: %w", err)
	}
	defer f.Close()

	return readXLSSheets(f)
}

func readXLSSheets(r io.ReadSeeker) (sheets []sheet, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed XLS workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open XLS workbook: no workbook stream")
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for rowIndex := 0; rowIndex <= int(ws.MaxRow); rowIndex++ {
			rows = append(rows, readXLSRow(ws, rowIndex))
		}
		sheets = append(sheets, sheet{Name: ws.Name, Rows: rows})
	}

	return sheets, nil
}

// readXLSRow returns nil for rows the sheet never stored; the reader
// dereferences missing rows without checking.
func readXLSRow(ws *xls.WorkSheet, rowIndex int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := ws.Row(rowIndex)
	if row == nil {
		return nil
	}

	cells = make([]string, row.LastCol())
	for col := row.FirstCol(); col < row.LastCol(); col++ {
		cells[col] = row.Col(col)
	}
	return cells
}
