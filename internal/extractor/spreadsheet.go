package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// extractSpreadsheet reads the first sheet and renders it as an aligned table.
// The first row is the header; no row index column is printed.
func (e *implExtractor) extractSpreadsheet(ctx context.Context, file domain.UploadedFile, _ string) (string, error) {
	var (
		rows [][]string
		err  error
	)
	if isZip(file.Bytes) {
		rows, err = xlsxRows(file.Bytes)
	} else {
		rows, err = e.xlsRows(ctx, file)
	}
	if err != nil {
		return "", err
	}

	return renderTable(rows), nil
}

func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// xlsRows converts a BIFF workbook with xls2csv and keeps the first sheet.
func (e *implExtractor) xlsRows(ctx context.Context, file domain.UploadedFile) ([][]string, error) {
	out, err := e.runTool(ctx, file, e.cfg.Tools.XLS2CSV, func(path string) []string {
		return []string{"-d", "utf-8", path}
	})
	if err != nil {
		return nil, err
	}

	// sheets are separated by form feeds
	first := strings.SplitN(out, "\f", 2)[0]

	r := csv.NewReader(strings.NewReader(first))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xls2csv output: %w", err)
	}
	return rows, nil
}

func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}
	padded := make([][]string, len(rows))
	for i, row := range rows {
		padded[i] = make([]string, width)
		copy(padded[i], row)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding(" ")
	table.SetNoWhiteSpace(true)
	table.SetHeader(padded[0])
	table.AppendBulk(padded[1:])
	table.Render()

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
